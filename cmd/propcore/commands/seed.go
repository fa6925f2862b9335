package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taiseel/propcore/internal/property"
	"github.com/taiseel/propcore/internal/seed"
	"github.com/taiseel/propcore/internal/valuation"
	"github.com/taiseel/propcore/pkg/config"
	"github.com/taiseel/propcore/pkg/database"
	"github.com/taiseel/propcore/pkg/logger"
)

// seedCmd imports the unit inventory from the legacy static site
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import unit inventory from the legacy site HTML",
	Long: `Parse the legacy static site's unit table and load it into the
units table. Existing unit codes are skipped, so the import is safe to
re-run. A valuation resync runs afterwards so the current-period
snapshot matches the seeded inventory.

Example:
  go run ./cmd/propcore seed --file site/index.html`,
	RunE: runSeed,
}

var seedFile string

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedFile, "file", "", "path to the legacy HTML page (required)")
	seedCmd.MarkFlagRequired("file")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	unitRepo := property.NewRepository(db.Pool)
	loader := seed.NewLoader(unitRepo, log)

	count, err := loader.ImportHTMLFile(ctx, seedFile)
	if err != nil {
		return fmt.Errorf("import inventory: %w", err)
	}

	// Bring the current-period snapshot in line with the seeded rows
	valuations := valuation.NewService(unitRepo, valuation.NewRepository(db.Pool), nil, log)
	snap, err := valuations.Resync(ctx)
	if err != nil {
		return fmt.Errorf("resync valuation: %w", err)
	}

	fmt.Printf("Imported %d units; snapshot %s: total=%d rent_roll=%d avg=%d\n",
		count, snap.Label, snap.TotalValue, snap.RentRoll, snap.PerUnitAvg)
	return nil
}
