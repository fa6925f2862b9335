package valuation

import (
	"context"
	"fmt"
	"sync"

	"github.com/taiseel/propcore/internal/property"
	"github.com/taiseel/propcore/pkg/logger"
)

// Publisher receives domain events for live subscribers
type Publisher interface {
	Publish(event string, payload any)
}

// Service owns snapshot upserts: it recomputes the current-period
// aggregate from the unit table and keeps the valuation history row for
// the current label fresh. Nothing else writes snapshots.
type Service struct {
	units     *property.Repository
	snapshots *Repository
	publisher Publisher
	logger    *logger.Logger

	// serializes resyncs so concurrent unit mutations converge on one
	// consistent snapshot
	mu sync.Mutex
}

// NewService creates a valuation service
func NewService(units *property.Repository, snapshots *Repository, pub Publisher, log *logger.Logger) *Service {
	return &Service{
		units:     units,
		snapshots: snapshots,
		publisher: pub,
		logger:    log,
	}
}

// Resync recomputes the current-period snapshot from the live unit rows
// and upserts it. Called after every unit mutation that can change value
// or rent, before history reads, and nightly by the scheduler.
func (s *Service) Resync(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	units, err := s.units.ListUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("load units: %w", err)
	}

	snap := Recompute(units)
	if err := s.snapshots.Upsert(ctx, snap); err != nil {
		return nil, fmt.Errorf("upsert snapshot: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"label":        snap.Label,
		"total_value":  snap.TotalValue,
		"rent_roll":    snap.RentRoll,
		"per_unit_avg": snap.PerUnitAvg,
		"units":        len(units),
	}).Debug("Valuation snapshot resynced")

	if s.publisher != nil {
		s.publisher.Publish("valuation_resynced", snap)
	}

	return &snap, nil
}

// History forces a current-period resync and then returns the full
// snapshot history ordered by label, so the current label always reflects
// the latest known unit state.
func (s *Service) History(ctx context.Context) ([]Snapshot, error) {
	if _, err := s.Resync(ctx); err != nil {
		return nil, err
	}

	return s.snapshots.History(ctx)
}
