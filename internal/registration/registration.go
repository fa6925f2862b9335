package registration

import (
	"encoding/json"
	"strings"
	"time"
)

// Canonical record keys. The intake form posts arbitrary key-value pairs;
// only these carry invariants, everything else is preserved verbatim.
const (
	KeyFirstName = "First Name"
	KeyLastName  = "Last Name"
	KeyEmail     = "Email Address"
	KeyEmailAlt  = "Email"
	KeyTimestamp = "timestamp"
)

// clock is swapped out in tests
var clock = time.Now

// Registration is a single lead record. The three required fields are typed;
// any other keys submitted with the form are carried in Extra so the stored
// shape stays forward compatible.
type Registration struct {
	FirstName string
	LastName  string
	Email     string
	Timestamp string
	Extra     map[string]any
}

// Record flattens the registration back into the legacy flat-record shape
// used by the whole-file store and the admin listing.
func (r *Registration) Record() map[string]any {
	m := make(map[string]any, len(r.Extra)+4)
	for k, v := range r.Extra {
		m[k] = v
	}
	if r.FirstName != "" {
		m[KeyFirstName] = r.FirstName
	}
	if r.LastName != "" {
		m[KeyLastName] = r.LastName
	}
	if r.Email != "" {
		m[KeyEmail] = r.Email
	}
	if r.Timestamp != "" {
		m[KeyTimestamp] = r.Timestamp
	}
	return m
}

// MarshalJSON serializes the flat-record shape
func (r *Registration) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Record())
}

// UnmarshalJSON parses the flat-record shape leniently
func (r *Registration) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*r = *PermissiveNormalize(m)
	return nil
}

// asRecord rejects payloads that are not simple key-value records
// (arrays, scalars, null).
func asRecord(raw any) (map[string]any, bool) {
	m, ok := raw.(map[string]any)
	if !ok || m == nil {
		return nil, false
	}
	return m, true
}

// trimRecord trims every string key and every string value, dropping keys
// that become empty after trimming.
func trimRecord(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		if s, ok := v.(string); ok {
			out[key] = strings.TrimSpace(s)
		} else {
			out[key] = v
		}
	}
	return out
}

// resolveEmail extracts the email value from a trimmed record, checking
// "Email Address" first and falling back to "Email".
func resolveEmail(m map[string]any) string {
	for _, key := range []string{KeyEmail, KeyEmailAlt} {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// validEmail performs the basic local@domain.tld shape check: non-empty
// whitespace-free local and domain parts, domain containing a dot.
func validEmail(email string) bool {
	local, domain, found := strings.Cut(email, "@")
	if !found {
		return false
	}
	if local == "" || strings.ContainsAny(local, " \t") {
		return false
	}
	if domain == "" || strings.ContainsAny(domain, " \t") {
		return false
	}
	return strings.Contains(domain, ".")
}

func nowStamp() string {
	return clock().UTC().Format(time.RFC3339)
}
