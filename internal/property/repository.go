package property

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles unit persistence
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const unitColumns = `id, unit_code, floor, type, sqft, status, value, rent, last_sold_at`

// ListUnits returns all units ordered by id
func (r *Repository) ListUnits(ctx context.Context) ([]Unit, error) {
	query := fmt.Sprintf(`SELECT %s FROM units ORDER BY id`, unitColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query units: %w", err)
	}
	defer rows.Close()

	return scanUnits(rows)
}

// ListUnitsByStatus returns units filtered by status, ordered by id
func (r *Repository) ListUnitsByStatus(ctx context.Context, status string) ([]Unit, error) {
	query := fmt.Sprintf(`SELECT %s FROM units WHERE status = $1 ORDER BY id`, unitColumns)

	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("query units by status: %w", err)
	}
	defer rows.Close()

	return scanUnits(rows)
}

// GetUnit returns a single unit by id
func (r *Repository) GetUnit(ctx context.Context, id int64) (*Unit, error) {
	query := fmt.Sprintf(`SELECT %s FROM units WHERE id = $1`, unitColumns)

	var u Unit
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Code, &u.Floor, &u.Type, &u.Sqft,
		&u.Status, &u.Value, &u.Rent, &u.LastSoldAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnitNotFound
		}
		return nil, fmt.Errorf("query unit %d: %w", id, err)
	}

	return &u, nil
}

// UpdateUnit applies a validated partial update and returns the updated
// row. Only status, value and rent are patchable.
func (r *Repository) UpdateUnit(ctx context.Context, id int64, patch Patch) (*Unit, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)

	if patch.Status != nil {
		args = append(args, *patch.Status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if patch.Value != nil {
		args = append(args, *patch.Value)
		sets = append(sets, fmt.Sprintf("value = $%d", len(args)))
	}
	if patch.Rent != nil {
		args = append(args, *patch.Rent)
		sets = append(sets, fmt.Sprintf("rent = $%d", len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE units SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), unitColumns,
	)

	var u Unit
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Code, &u.Floor, &u.Type, &u.Sqft,
		&u.Status, &u.Value, &u.Rent, &u.LastSoldAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnitNotFound
		}
		return nil, fmt.Errorf("update unit %d: %w", id, err)
	}

	return &u, nil
}

// InsertUnit inserts a seeded unit row, skipping codes that already exist
func (r *Repository) InsertUnit(ctx context.Context, u Unit) error {
	query := `
		INSERT INTO units (unit_code, floor, type, sqft, status, value, rent, last_sold_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (unit_code) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query,
		u.Code, u.Floor, u.Type, u.Sqft, u.Status, u.Value, u.Rent, u.LastSoldAt,
	)
	if err != nil {
		return fmt.Errorf("insert unit %s: %w", u.Code, err)
	}

	return nil
}

func scanUnits(rows pgx.Rows) ([]Unit, error) {
	units := make([]Unit, 0)
	for rows.Next() {
		var u Unit
		if err := rows.Scan(
			&u.ID, &u.Code, &u.Floor, &u.Type, &u.Sqft,
			&u.Status, &u.Value, &u.Rent, &u.LastSoldAt,
		); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate units: %w", err)
	}

	return units, nil
}

// Stats is the portfolio-wide aggregate consumed by the dashboard
type Stats struct {
	TotalUnits    int     `json:"totalUnits"`
	OccupiedUnits int     `json:"occupiedUnits"`
	VacantUnits   int     `json:"vacantUnits"`
	ListedUnits   int     `json:"listedUnits"`
	TotalValue    int64   `json:"totalValue"`
	AvgValue      int64   `json:"avgValue"`
	RentRoll      int64   `json:"rentRoll"`
	AvgRent       float64 `json:"avgRent"`
	OccupancyRate float64 `json:"occupancyRate"`
}

// Stats computes the portfolio aggregate in one query. Rent roll and
// average rent count occupied units only; value metrics cover all units.
func (r *Repository) Stats(ctx context.Context) (*Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'occupied'),
			COUNT(*) FILTER (WHERE status = 'vacant'),
			COUNT(*) FILTER (WHERE status = 'listed'),
			COALESCE(SUM(value), 0),
			COALESCE(ROUND(AVG(value)), 0),
			COALESCE(SUM(rent) FILTER (WHERE status = 'occupied'), 0),
			COALESCE(AVG(rent) FILTER (WHERE status = 'occupied'), 0)
		FROM units
	`

	var s Stats
	err := r.db.QueryRow(ctx, query).Scan(
		&s.TotalUnits, &s.OccupiedUnits, &s.VacantUnits, &s.ListedUnits,
		&s.TotalValue, &s.AvgValue, &s.RentRoll, &s.AvgRent,
	)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}

	if s.TotalUnits > 0 {
		s.OccupancyRate = float64(s.OccupiedUnits) / float64(s.TotalUnits) * 100
	}

	return &s, nil
}
