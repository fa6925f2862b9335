package valuation

import (
	"math"
	"strconv"
	"time"

	"github.com/taiseel/propcore/internal/property"
)

// clock is swapped out in tests
var clock = time.Now

// Snapshot is a time-bucketed portfolio valuation aggregate. At most one
// row exists per label; the current-period label is always the live
// aggregate while past labels stay frozen.
type Snapshot struct {
	Label      string `json:"label"`
	TotalValue int64  `json:"total_value"`
	RentRoll   int64  `json:"rent_roll"`
	PerUnitAvg int64  `json:"per_unit_avg"`
}

// CurrentLabel returns the snapshot bucket for the current period, the
// calendar year as a string.
func CurrentLabel() string {
	return strconv.Itoa(clock().Year())
}

// Recompute derives the portfolio metrics from the full unit set, with no
// status filtering. An empty unit set yields an all-zero snapshot.
func Recompute(units []property.Unit) Snapshot {
	snap := Snapshot{Label: CurrentLabel()}
	if len(units) == 0 {
		return snap
	}

	for _, u := range units {
		snap.TotalValue += u.Value
		snap.RentRoll += u.Rent
	}
	snap.PerUnitAvg = int64(math.Round(float64(snap.TotalValue) / float64(len(units))))

	return snap
}
