package valuation

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles valuation snapshot persistence
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Upsert inserts the snapshot or overwrites the metric fields for an
// existing label. History length never grows for a repeated label.
func (r *Repository) Upsert(ctx context.Context, snap Snapshot) error {
	query := `
		INSERT INTO valuation_history (label, total_value, rent_roll, per_unit_avg)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (label) DO UPDATE SET
			total_value = EXCLUDED.total_value,
			rent_roll = EXCLUDED.rent_roll,
			per_unit_avg = EXCLUDED.per_unit_avg
	`

	_, err := r.db.Exec(ctx, query,
		snap.Label, snap.TotalValue, snap.RentRoll, snap.PerUnitAvg,
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot %s: %w", snap.Label, err)
	}

	return nil
}

// History returns all snapshots ordered by label
func (r *Repository) History(ctx context.Context) ([]Snapshot, error) {
	query := `
		SELECT label, total_value, rent_roll, per_unit_avg
		FROM valuation_history
		ORDER BY label
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query valuation history: %w", err)
	}
	defer rows.Close()

	history := make([]Snapshot, 0)
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.Label, &s.TotalValue, &s.RentRoll, &s.PerUnitAvg); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		history = append(history, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	return history, nil
}
