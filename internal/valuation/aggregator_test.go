package valuation

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taiseel/propcore/internal/property"
)

func fixClock(t *testing.T, at time.Time) {
	t.Helper()
	old := clock
	clock = func() time.Time { return at }
	t.Cleanup(func() { clock = old })
}

func TestRecompute_EmptyUnitSet(t *testing.T) {
	snap := Recompute(nil)

	assert.Equal(t, int64(0), snap.TotalValue)
	assert.Equal(t, int64(0), snap.RentRoll)
	assert.Equal(t, int64(0), snap.PerUnitAvg)
}

func TestRecompute_SumsAndAverages(t *testing.T) {
	units := []property.Unit{
		{Value: 100, Rent: 10},
		{Value: 200, Rent: 20},
		{Value: 300, Rent: 30},
	}

	snap := Recompute(units)

	assert.Equal(t, int64(600), snap.TotalValue)
	assert.Equal(t, int64(60), snap.RentRoll)
	assert.Equal(t, int64(200), snap.PerUnitAvg)
}

func TestRecompute_IgnoresStatus(t *testing.T) {
	units := []property.Unit{
		{Value: 100, Rent: 10, Status: property.StatusOccupied},
		{Value: 100, Rent: 10, Status: property.StatusVacant},
		{Value: 100, Rent: 10, Status: property.StatusListed},
	}

	snap := Recompute(units)

	assert.Equal(t, int64(300), snap.TotalValue)
	assert.Equal(t, int64(30), snap.RentRoll)
}

func TestRecompute_RoundsPerUnitAverage(t *testing.T) {
	units := []property.Unit{
		{Value: 100},
		{Value: 101},
		{Value: 101},
	}

	// mean is 100.666..., rounds to 101
	snap := Recompute(units)
	assert.Equal(t, int64(101), snap.PerUnitAvg)
}

func TestRecompute_LabelIsCurrentYear(t *testing.T) {
	fixClock(t, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC))

	snap := Recompute([]property.Unit{{Value: 1}})
	assert.Equal(t, "2026", snap.Label)
}

func TestCurrentLabel(t *testing.T) {
	fixClock(t, time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, strconv.Itoa(2031), CurrentLabel())
}
