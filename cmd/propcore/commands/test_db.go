package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taiseel/propcore/pkg/config"
	"github.com/taiseel/propcore/pkg/database"
)

// testDBCmd verifies database connectivity
var testDBCmd = &cobra.Command{
	Use:   "test-db",
	Short: "Check database connectivity",
	RunE:  runTestDB,
}

func init() {
	rootCmd.AddCommand(testDBCmd)
}

func runTestDB(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}

	fmt.Printf("Database OK (response=%s, conns=%d/%d)\n",
		status.ResponseTime, status.Stats.TotalConns, status.Stats.MaxConns)
	return nil
}
