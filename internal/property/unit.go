package property

import (
	"errors"
	"fmt"
	"strings"
)

// Unit statuses
const (
	StatusOccupied = "occupied"
	StatusVacant   = "vacant"
	StatusListed   = "listed"
)

// ErrUnitNotFound is returned for lookups and patches of unknown unit ids
var ErrUnitNotFound = errors.New("unit not found")

// Unit represents a building unit row. Identity and physical attributes
// (id, unit_code, floor, type, sqft) are immutable after seeding; only
// status, value and rent change through the API.
type Unit struct {
	ID         int64   `json:"id"`
	Code       string  `json:"unit_code"`
	Floor      int     `json:"floor"`
	Type       string  `json:"type"`
	Sqft       int     `json:"sqft"`
	Status     string  `json:"status"`
	Value      int64   `json:"value"`
	Rent       int64   `json:"rent"`
	LastSoldAt *string `json:"last_sold_at,omitempty"`
}

// ValidStatus reports whether s is an accepted unit status
func ValidStatus(s string) bool {
	switch s {
	case StatusOccupied, StatusVacant, StatusListed:
		return true
	}
	return false
}

// Patch is a partial update of the mutable unit fields
type Patch struct {
	Status *string `json:"status,omitempty"`
	Value  *int64  `json:"value,omitempty"`
	Rent   *int64  `json:"rent,omitempty"`
}

// InvalidPatchError reports a patch that failed validation, carrying the
// offending field names for the error response.
type InvalidPatchError struct {
	Fields []string
}

func (e *InvalidPatchError) Error() string {
	if len(e.Fields) == 0 {
		return "patch contains no updatable fields"
	}
	return fmt.Sprintf("invalid unit patch: %s", strings.Join(e.Fields, ", "))
}

// IsInvalidPatch reports whether err is an InvalidPatchError
func IsInvalidPatch(err error) bool {
	var ipe *InvalidPatchError
	return errors.As(err, &ipe)
}

// Validate checks the patch before any store access. An empty patch and
// out-of-range values are both rejected.
func (p Patch) Validate() error {
	if p.Status == nil && p.Value == nil && p.Rent == nil {
		return &InvalidPatchError{}
	}

	var bad []string
	if p.Status != nil && !ValidStatus(*p.Status) {
		bad = append(bad, "status")
	}
	if p.Value != nil && *p.Value <= 0 {
		bad = append(bad, "value")
	}
	if p.Rent != nil && *p.Rent < 0 {
		bad = append(bad, "rent")
	}

	if len(bad) > 0 {
		return &InvalidPatchError{Fields: bad}
	}
	return nil
}

// ChangesValuation reports whether the patch touches value or rent, which
// is what decides if a valuation resync is needed.
func (p Patch) ChangesValuation() bool {
	return p.Value != nil || p.Rent != nil
}
