package seed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taiseel/propcore/internal/property"
)

const sampleUnitsHTML = `<!DOCTYPE html>
<html>
<body>
<table>
<tbody id="unit-tbody">
<tr>
  <td>A-101</td>
  <td>1</td>
  <td>Studio</td>
  <td>480 sqft</td>
  <td>$620,000</td>
  <td>$3,400</td>
  <td>6.6%</td>
  <td><span class="pill">&#9679; Occupied</span></td>
</tr>
<tr>
  <td> B-204 </td>
  <td>2</td>
  <td>2BR</td>
  <td>1,034 sqft</td>
  <td>$1,200,000</td>
  <td>$6,800</td>
  <td>6.8%</td>
  <td><span class="pill">&#9675; Vacant</span></td>
</tr>
<tr>
  <td>C-310</td>
  <td>3</td>
  <td>3BR</td>
  <td>1,560 sqft</td>
  <td>$1,950,000</td>
  <td>$0</td>
  <td>0.0%</td>
  <td><span class="pill">&#9672; Listed</span></td>
</tr>
</tbody>
</table>
</body>
</html>`

func TestParseUnitsHTML(t *testing.T) {
	units, err := ParseUnitsHTML(strings.NewReader(sampleUnitsHTML))
	require.NoError(t, err)
	require.Len(t, units, 3)

	first := units[0]
	assert.Equal(t, "A-101", first.Code)
	assert.Equal(t, 1, first.Floor)
	assert.Equal(t, "Studio", first.Type)
	assert.Equal(t, 480, first.Sqft)
	assert.Equal(t, int64(620_000), first.Value)
	assert.Equal(t, int64(3_400), first.Rent)
	assert.Equal(t, property.StatusOccupied, first.Status)

	// Thousands separators and whitespace are tolerated
	second := units[1]
	assert.Equal(t, "B-204", second.Code)
	assert.Equal(t, 1034, second.Sqft)
	assert.Equal(t, int64(1_200_000), second.Value)
	assert.Equal(t, property.StatusVacant, second.Status)

	assert.Equal(t, property.StatusListed, units[2].Status)
	assert.Equal(t, int64(0), units[2].Rent)
}

func TestParseUnitsHTML_NoRows(t *testing.T) {
	_, err := ParseUnitsHTML(strings.NewReader("<html><body><p>nothing</p></body></html>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no unit rows")
}

func TestParseUnitsHTML_ShortRow(t *testing.T) {
	html := `<tbody id="unit-tbody"><tr><td>A-101</td><td>1</td></tr></tbody>`
	_, err := ParseUnitsHTML(strings.NewReader(html))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected at least 8 cells")
}

func TestParseUnitsHTML_BadStatus(t *testing.T) {
	html := `<tbody id="unit-tbody"><tr>
<td>A-101</td><td>1</td><td>Studio</td><td>480</td>
<td>620000</td><td>3400</td><td>6.6%</td><td>Sold</td>
</tr></tbody>`
	_, err := ParseUnitsHTML(strings.NewReader(html))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized status")
}

func TestParseUnitsHTML_EmptyCode(t *testing.T) {
	html := `<tbody id="unit-tbody"><tr>
<td> </td><td>1</td><td>Studio</td><td>480</td>
<td>620000</td><td>3400</td><td>6.6%</td><td>Vacant</td>
</tr></tbody>`
	_, err := ParseUnitsHTML(strings.NewReader(html))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty unit code")
}

func TestParseUnitsHTML_ValueWithoutDigits(t *testing.T) {
	html := `<tbody id="unit-tbody"><tr>
<td>A-101</td><td>1</td><td>Studio</td><td>480</td>
<td>TBD</td><td>3400</td><td>6.6%</td><td>Vacant</td>
</tr></tbody>`
	_, err := ParseUnitsHTML(strings.NewReader(html))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no digits")
}
