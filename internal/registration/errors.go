package registration

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateEmail is returned when the candidate email already has a
// stored registration.
var ErrDuplicateEmail = errors.New("registration with this email already exists")

// InvalidPayloadError reports a payload that failed strict normalization,
// carrying the offending field names for the error response.
type InvalidPayloadError struct {
	Fields []string
}

func (e *InvalidPayloadError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid registration payload"
	}
	return fmt.Sprintf("invalid registration payload: %s", strings.Join(e.Fields, ", "))
}

// IsInvalidPayload reports whether err is an InvalidPayloadError
func IsInvalidPayload(err error) bool {
	var ipe *InvalidPayloadError
	return errors.As(err, &ipe)
}
