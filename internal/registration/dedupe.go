package registration

import "strings"

// HasDuplicate reports whether candidateEmail already appears among the
// stored records. Comparison is case- and whitespace-insensitive; records
// with no resolvable email never match. A linear scan is fine: the lead
// list is small and the caller holds the store lock.
func HasDuplicate(existing []map[string]any, candidateEmail string) bool {
	candidate := strings.ToLower(strings.TrimSpace(candidateEmail))
	if candidate == "" {
		return false
	}

	for _, record := range existing {
		email := recordEmail(record)
		if email == "" {
			continue
		}
		if strings.ToLower(strings.TrimSpace(email)) == candidate {
			return true
		}
	}

	return false
}

// recordEmail resolves a stored record's email, checking "Email Address"
// then falling back to "Email".
func recordEmail(record map[string]any) string {
	for _, key := range []string{KeyEmail, KeyEmailAlt} {
		if s, ok := record[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
