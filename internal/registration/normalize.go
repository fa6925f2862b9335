package registration

import "strings"

// Normalize validates and canonicalizes a raw intake payload. It rejects
// anything that is not a key-value record or that lacks a first name, last
// name or well-formed email, and stamps the creation timestamp. Pure except
// for reading the clock.
func Normalize(raw any) (*Registration, error) {
	reg, missing := strictParse(raw)
	if len(missing) > 0 {
		return nil, &InvalidPayloadError{Fields: missing}
	}

	// Creation time is assigned here, never client-supplied
	reg.Timestamp = nowStamp()
	return reg, nil
}

// PermissiveNormalize is the read-path fallback: it never rejects. Legacy
// records missing required fields still get a best-effort Email Address and
// timestamp so historical data stays visible in listings.
func PermissiveNormalize(raw any) *Registration {
	m, ok := asRecord(raw)
	if !ok {
		return &Registration{Timestamp: nowStamp(), Extra: map[string]any{}}
	}

	trimmed := trimRecord(m)
	reg := extract(trimmed)

	if reg.Email == "" {
		reg.Email = resolveEmail(trimmed)
	}
	if reg.Timestamp == "" {
		reg.Timestamp = nowStamp()
	}
	return reg
}

// strictParse applies the strict policy without touching the timestamp:
// Normalize overwrites it for new intakes, ListAll keeps the stored one.
func strictParse(raw any) (*Registration, []string) {
	m, ok := asRecord(raw)
	if !ok {
		return nil, []string{"payload"}
	}

	trimmed := trimRecord(m)
	reg := extract(trimmed)

	var missing []string
	if reg.FirstName == "" {
		missing = append(missing, KeyFirstName)
	}
	if reg.LastName == "" {
		missing = append(missing, KeyLastName)
	}

	email := strings.ToLower(strings.TrimSpace(resolveEmail(trimmed)))
	switch {
	case email == "":
		missing = append(missing, KeyEmail)
	case !validEmail(email):
		missing = append(missing, KeyEmail)
	default:
		reg.Email = email
	}

	if len(missing) > 0 {
		return nil, missing
	}
	return reg, nil
}

// extract pulls the canonical fields out of a trimmed record; everything
// else lands in Extra. A separate "Email" key is consumed, not preserved.
func extract(trimmed map[string]any) *Registration {
	reg := &Registration{Extra: make(map[string]any)}

	for k, v := range trimmed {
		switch k {
		case KeyFirstName:
			if s, ok := v.(string); ok {
				reg.FirstName = s
			}
		case KeyLastName:
			if s, ok := v.(string); ok {
				reg.LastName = s
			}
		case KeyEmail, KeyEmailAlt:
			// resolved separately, "Email Address" wins over "Email"
		case KeyTimestamp:
			if s, ok := v.(string); ok {
				reg.Timestamp = s
			}
		default:
			reg.Extra[k] = v
		}
	}

	if s, ok := trimmed[KeyEmail].(string); ok && s != "" {
		reg.Email = s
	}
	return reg
}
