package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/taiseel/propcore/pkg/config"
	"github.com/taiseel/propcore/pkg/httputil"
	"github.com/taiseel/propcore/pkg/logger"
)

// Service fans a finished lead record out over the enabled channels.
// Delivery is best-effort relative to the registration request: the caller
// logs failures and continues.
type Service struct {
	email   *emailConfig
	message *messageConfig
	client  *httputil.Client
	logger  *logger.Logger
}

// Receipt reports per-channel delivery outcomes for one send
type Receipt struct {
	EmailSent   bool `json:"emailSent"`
	MessageSent bool `json:"messageSent"`
}

// NewService validates the channel configuration and builds the
// dispatcher. Fails with ErrConfigInvalid or ConfigMissingError.
func NewService(cfg config.NotifyConfig, client *httputil.Client, log *logger.Logger) (*Service, error) {
	email, message, err := buildChannels(cfg)
	if err != nil {
		return nil, err
	}

	return &Service{
		email:   email,
		message: message,
		client:  client,
		logger:  log,
	}, nil
}

// EmailEnabled reports whether the email channel is configured
func (s *Service) EmailEnabled() bool {
	return s.email != nil
}

// MessageEnabled reports whether the message channel is configured
func (s *Service) MessageEnabled() bool {
	return s.message != nil
}

// FindLeadEmail resolves an email-shaped value anywhere in the lead
// record, preferring the canonical keys before scanning all values for an
// @-containing string. Returns "" when nothing resolves.
func FindLeadEmail(lead map[string]any) string {
	if lead == nil {
		return ""
	}

	exactKeys := []string{"email", "Email", "emailAddress", "Email Address"}
	for _, key := range exactKeys {
		if s, ok := lead[key].(string); ok && strings.Contains(s, "@") {
			return s
		}
	}

	for _, v := range lead {
		if s, ok := v.(string); ok && strings.Contains(s, "@") {
			return s
		}
	}

	return ""
}

// SendLeadConfirmation sends a confirmation to the lead. A lead with no
// resolvable email skips the email send without error; the message channel
// is notified regardless. The two channels run concurrently.
func (s *Service) SendLeadConfirmation(ctx context.Context, lead map[string]any) (Receipt, error) {
	leadEmail := FindLeadEmail(lead)

	var (
		receipt              Receipt
		errEmail, errMessage error
		wg                   sync.WaitGroup
	)

	if leadEmail != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			receipt.EmailSent, errEmail = s.sendEmail(ctx, KindConfirmation, emailPayload{
				To:      leadEmail,
				Subject: "Thanks for registering with Taiseel Development",
				Text:    fmt.Sprintf("We received your registration for %s.\n\nOur team will contact you soon.", leadEmail),
			})
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		receipt.MessageSent, errMessage = s.sendMessage(ctx, KindConfirmation, messagePayload{
			Type:    "lead_confirmation",
			Message: fmt.Sprintf("Lead confirmation queued for %s", leadEmail),
			Lead:    lead,
		})
	}()

	wg.Wait()
	return receipt, errors.Join(errEmail, errMessage)
}

// SendAdminLeadAlert always attempts delivery to the configured admin
// target on every enabled channel, whether or not the lead itself has a
// resolvable email.
func (s *Service) SendAdminLeadAlert(ctx context.Context, lead map[string]any) (Receipt, error) {
	var (
		receipt              Receipt
		errEmail, errMessage error
		wg                   sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		to := ""
		if s.email != nil {
			to = s.email.AdminEmail
		}
		receipt.EmailSent, errEmail = s.sendEmail(ctx, KindAlert, emailPayload{
			To:      to,
			Subject: "New lead registration",
			Text:    fmt.Sprintf("A new lead registration was received.\n\n%v", lead),
		})
	}()
	go func() {
		defer wg.Done()
		receipt.MessageSent, errMessage = s.sendMessage(ctx, KindAlert, messagePayload{
			Type:    "admin_lead_alert",
			Message: "Admin alert: new lead registration",
			Lead:    lead,
		})
	}()

	wg.Wait()
	return receipt, errors.Join(errEmail, errMessage)
}

type emailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

type smtpSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	User string `json:"user"`
	Pass string `json:"pass"`
	From string `json:"from"`
}

type emailRequest struct {
	Provider string       `json:"provider"`
	SMTP     smtpSettings `json:"smtp"`
	emailPayload
}

type messagePayload struct {
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Lead    map[string]any `json:"lead,omitempty"`
}

type messageRequest struct {
	Target string `json:"target"`
	messagePayload
}

// sendEmail posts the payload to the email delivery service. Disabled
// channel is a skip, not an error.
func (s *Service) sendEmail(ctx context.Context, kind string, payload emailPayload) (bool, error) {
	if s.email == nil {
		return false, nil
	}

	req := emailRequest{
		Provider: "smtp-relay",
		SMTP: smtpSettings{
			Host: s.email.SMTPHost,
			Port: s.email.SMTPPort,
			User: s.email.SMTPUser,
			Pass: s.email.SMTPPass,
			From: s.email.From,
		},
		emailPayload: payload,
	}

	resp, err := s.client.PostJSON(ctx, s.email.ServiceURL, req)
	if err != nil {
		return false, &DeliveryError{Channel: "email", Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return false, &DeliveryError{Channel: "email", Kind: kind, Status: resp.StatusCode}
	}

	return true, nil
}

// sendMessage posts the payload to the broadcast-message webhook
func (s *Service) sendMessage(ctx context.Context, kind string, payload messagePayload) (bool, error) {
	if s.message == nil {
		return false, nil
	}

	req := messageRequest{
		Target:         s.message.AdminTarget,
		messagePayload: payload,
	}

	resp, err := s.client.PostJSON(ctx, s.message.WebhookURL, req)
	if err != nil {
		return false, &DeliveryError{Channel: "message", Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return false, &DeliveryError{Channel: "message", Kind: kind, Status: resp.StatusCode}
	}

	return true, nil
}
