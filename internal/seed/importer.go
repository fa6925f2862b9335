package seed

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/taiseel/propcore/internal/property"
)

// ParseUnitsHTML extracts the unit inventory from the legacy static site,
// which shipped its unit table inline as #unit-tbody rows:
// code, floor, type, sqft, value, rent, yield, status.
func ParseUnitsHTML(r io.Reader) ([]property.Unit, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	rows := doc.Find("#unit-tbody tr")
	if rows.Length() == 0 {
		return nil, fmt.Errorf("no unit rows found in document")
	}

	units := make([]property.Unit, 0, rows.Length())
	var parseErr error

	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 8 {
			parseErr = fmt.Errorf("row %d: expected at least 8 cells, got %d", i, cells.Length())
			return false
		}

		unit := property.Unit{
			Code: strings.TrimSpace(cells.Eq(0).Text()),
			Type: strings.TrimSpace(cells.Eq(2).Text()),
		}

		if unit.Floor, parseErr = cellInt(cells, 1, i, "floor"); parseErr != nil {
			return false
		}
		if unit.Sqft, parseErr = cellInt(cells, 3, i, "sqft"); parseErr != nil {
			return false
		}

		var v, rent int
		if v, parseErr = cellInt(cells, 4, i, "value"); parseErr != nil {
			return false
		}
		if rent, parseErr = cellInt(cells, 5, i, "rent"); parseErr != nil {
			return false
		}
		unit.Value = int64(v)
		unit.Rent = int64(rent)

		// cell 6 is the rental yield, derived data we recompute instead
		unit.Status = parseStatus(cells.Eq(7).Text())

		if unit.Code == "" {
			parseErr = fmt.Errorf("row %d: empty unit code", i)
			return false
		}
		if !property.ValidStatus(unit.Status) {
			parseErr = fmt.Errorf("row %d: unrecognized status %q", i, unit.Status)
			return false
		}

		units = append(units, unit)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return units, nil
}

// cellInt parses a numeric cell, tolerating the currency and thousands
// formatting the static site bakes in ("$1,200,000", "1,034 sqft").
func cellInt(cells *goquery.Selection, idx, row int, name string) (int, error) {
	raw := strings.TrimSpace(cells.Eq(idx).Text())

	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if cleaned == "" {
		return 0, fmt.Errorf("row %d: %s cell %q has no digits", row, name, raw)
	}

	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("row %d: parse %s from %q: %w", row, name, raw, err)
	}
	return n, nil
}

// parseStatus maps a status pill label ("● Occupied", "○ Vacant",
// "◈ Listed") to the canonical status value.
func parseStatus(text string) string {
	lower := strings.ToLower(text)
	for _, status := range []string{property.StatusOccupied, property.StatusVacant, property.StatusListed} {
		if strings.Contains(lower, status) {
			return status
		}
	}
	return strings.TrimSpace(lower)
}
