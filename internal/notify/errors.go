package notify

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfigInvalid is returned when no notification channel is enabled
var ErrConfigInvalid = errors.New("notification config invalid: enable at least one channel via EMAIL_NOTIFICATIONS_ENABLED or MESSAGE_NOTIFICATIONS_ENABLED")

// ConfigMissingError reports an enabled channel with required settings unset
type ConfigMissingError struct {
	Channel string
	Keys    []string
}

func (e *ConfigMissingError) Error() string {
	return fmt.Sprintf("notification config missing: %s channel requires %s",
		e.Channel, strings.Join(e.Keys, ", "))
}

// Delivery kinds
const (
	KindConfirmation = "confirmation"
	KindAlert        = "alert"
)

// DeliveryError reports a failed delivery attempt, identifying both the
// channel and whether it was a lead confirmation or an admin alert.
type DeliveryError struct {
	Channel string
	Kind    string
	Status  int
	Err     error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s delivery failed: %v", e.Channel, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s delivery failed: upstream returned status %d", e.Channel, e.Kind, e.Status)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
