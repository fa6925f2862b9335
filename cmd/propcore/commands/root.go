package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "propcore",
	Short: "Taiseel property-management backend",
	Long: `Propcore CLI

Backend for the Taiseel Development property site: lead registration
intake, unit inventory, valuation snapshots and admin notifications.

Usage:
  go run ./cmd/propcore [command]

Examples:
  go run ./cmd/propcore api
  go run ./cmd/propcore seed --file site/index.html
  go run ./cmd/propcore resync
  go run ./cmd/propcore notify-check`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
