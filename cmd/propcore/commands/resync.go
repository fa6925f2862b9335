package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taiseel/propcore/internal/property"
	"github.com/taiseel/propcore/internal/valuation"
	"github.com/taiseel/propcore/pkg/config"
	"github.com/taiseel/propcore/pkg/database"
	"github.com/taiseel/propcore/pkg/logger"
)

// resyncCmd recomputes the current-period valuation snapshot once
var resyncCmd = &cobra.Command{
	Use:   "resync",
	Short: "Recompute the current-period valuation snapshot",
	RunE:  runResync,
}

func init() {
	rootCmd.AddCommand(resyncCmd)
}

func runResync(cmd *cobra.Command, args []string) error {
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	unitRepo := property.NewRepository(db.Pool)
	valuations := valuation.NewService(unitRepo, valuation.NewRepository(db.Pool), nil, log)

	snap, err := valuations.Resync(ctx)
	if err != nil {
		return fmt.Errorf("resync valuation: %w", err)
	}

	fmt.Printf("Snapshot %s: total=%d rent_roll=%d avg=%d\n",
		snap.Label, snap.TotalValue, snap.RentRoll, snap.PerUnitAvg)
	return nil
}
