package registration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixClock(t *testing.T, at time.Time) {
	t.Helper()
	old := clock
	clock = func() time.Time { return at }
	t.Cleanup(func() { clock = old })
}

func TestNormalize_RejectsNonRecords(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"nil", nil},
		{"array", []any{"a", "b"}},
		{"string", "hello"},
		{"number", 42.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := Normalize(tt.raw)
			assert.Nil(t, reg)
			assert.True(t, IsInvalidPayload(err))
		})
	}
}

func TestNormalize_RejectsMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		missing []string
	}{
		{
			name:    "empty record",
			raw:     map[string]any{},
			missing: []string{KeyFirstName, KeyLastName, KeyEmail},
		},
		{
			name: "missing first name",
			raw: map[string]any{
				"Last Name": "Doe",
				"Email":     "jd@example.com",
			},
			missing: []string{KeyFirstName},
		},
		{
			name: "whitespace-only last name",
			raw: map[string]any{
				"First Name": "Jo",
				"Last Name":  "   ",
				"Email":      "jd@example.com",
			},
			missing: []string{KeyLastName},
		},
		{
			name: "malformed email",
			raw: map[string]any{
				"First Name": "Jo",
				"Last Name":  "Doe",
				"Email":      "not-an-email",
			},
			missing: []string{KeyEmail},
		},
		{
			name: "email domain without dot",
			raw: map[string]any{
				"First Name":    "Jo",
				"Last Name":     "Doe",
				"Email Address": "jd@localhost",
			},
			missing: []string{KeyEmail},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := Normalize(tt.raw)
			assert.Nil(t, reg)

			var ipe *InvalidPayloadError
			require.ErrorAs(t, err, &ipe)
			assert.ElementsMatch(t, tt.missing, ipe.Fields)
		})
	}
}

func TestNormalize_CanonicalizesEmail(t *testing.T) {
	fixClock(t, time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))

	reg, err := Normalize(map[string]any{
		"First Name": " Jo ",
		"Last Name":  "Do",
		"Email":      " J.D@Example.COM ",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jo", reg.FirstName)
	assert.Equal(t, "Do", reg.LastName)
	assert.Equal(t, "j.d@example.com", reg.Email)
	assert.Equal(t, "2026-08-29T12:00:00Z", reg.Timestamp)
}

func TestNormalize_EmailAddressKeyWins(t *testing.T) {
	reg, err := Normalize(map[string]any{
		"First Name":    "Jo",
		"Last Name":     "Do",
		"Email Address": "primary@example.com",
		"Email":         "secondary@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "primary@example.com", reg.Email)

	// The alternate key is consumed, not preserved
	record := reg.Record()
	assert.NotContains(t, record, KeyEmailAlt)
	assert.Equal(t, "primary@example.com", record[KeyEmail])
}

func TestNormalize_PreservesExtraFields(t *testing.T) {
	reg, err := Normalize(map[string]any{
		"First Name":    "Jo",
		"Last Name":     "Do",
		"Email Address": "jd@example.com",
		" Phone ":       " 050-1234567 ",
		"Interest":      "Penthouse",
		"  ":            "dropped",
	})
	require.NoError(t, err)

	assert.Equal(t, "050-1234567", reg.Extra["Phone"])
	assert.Equal(t, "Penthouse", reg.Extra["Interest"])
	assert.Len(t, reg.Extra, 2)
}

func TestNormalize_TimestampNeverClientSupplied(t *testing.T) {
	fixClock(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	reg, err := Normalize(map[string]any{
		"First Name":    "Jo",
		"Last Name":     "Do",
		"Email Address": "jd@example.com",
		"timestamp":     "1999-01-01T00:00:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-01-02T03:04:05Z", reg.Timestamp)
}

func TestPermissiveNormalize_NeverRejects(t *testing.T) {
	fixClock(t, time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))

	tests := []struct {
		name      string
		raw       any
		wantEmail string
	}{
		{
			name: "fills email from alternate key",
			raw: map[string]any{
				"First Name": "Legacy",
				"Email":      "legacy@example.com",
			},
			wantEmail: "legacy@example.com",
		},
		{
			name:      "record with nothing resolvable",
			raw:       map[string]any{"note": "walk-in visitor"},
			wantEmail: "",
		},
		{
			name:      "not a record at all",
			raw:       "garbage",
			wantEmail: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := PermissiveNormalize(tt.raw)
			require.NotNil(t, reg)
			assert.Equal(t, tt.wantEmail, reg.Email)
			assert.NotEmpty(t, reg.Timestamp)
		})
	}
}

func TestPermissiveNormalize_KeepsStoredTimestamp(t *testing.T) {
	reg := PermissiveNormalize(map[string]any{
		"Email":     "legacy@example.com",
		"timestamp": "2020-05-05T10:00:00Z",
	})

	assert.Equal(t, "2020-05-05T10:00:00Z", reg.Timestamp)
}
