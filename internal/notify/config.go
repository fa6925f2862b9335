package notify

import "github.com/taiseel/propcore/pkg/config"

// emailConfig holds the SMTP relay settings forwarded to the email
// delivery service.
type emailConfig struct {
	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	From       string
	AdminEmail string
	ServiceURL string
}

// messageConfig holds the broadcast-message webhook settings
type messageConfig struct {
	WebhookURL  string
	AdminTarget string
}

// buildChannels validates the channel configuration. Misconfiguration is a
// deployment fault and fails at startup, not per request.
func buildChannels(cfg config.NotifyConfig) (*emailConfig, *messageConfig, error) {
	if !cfg.EmailEnabled && !cfg.MessageEnabled {
		return nil, nil, ErrConfigInvalid
	}

	var email *emailConfig
	if cfg.EmailEnabled {
		var missing []string
		if cfg.SMTPHost == "" {
			missing = append(missing, "SMTP_HOST")
		}
		if cfg.SMTPPort == 0 {
			missing = append(missing, "SMTP_PORT")
		}
		if cfg.SMTPUser == "" {
			missing = append(missing, "SMTP_USER")
		}
		if cfg.SMTPPass == "" {
			missing = append(missing, "SMTP_PASS")
		}
		if cfg.SMTPFrom == "" {
			missing = append(missing, "SMTP_FROM")
		}
		if cfg.AdminAlertEmail == "" {
			missing = append(missing, "ADMIN_ALERT_EMAIL")
		}
		if cfg.EmailServiceURL == "" {
			missing = append(missing, "EMAIL_SERVICE_URL")
		}
		if len(missing) > 0 {
			return nil, nil, &ConfigMissingError{Channel: "email", Keys: missing}
		}

		email = &emailConfig{
			SMTPHost:   cfg.SMTPHost,
			SMTPPort:   cfg.SMTPPort,
			SMTPUser:   cfg.SMTPUser,
			SMTPPass:   cfg.SMTPPass,
			From:       cfg.SMTPFrom,
			AdminEmail: cfg.AdminAlertEmail,
			ServiceURL: cfg.EmailServiceURL,
		}
	}

	var message *messageConfig
	if cfg.MessageEnabled {
		if cfg.MessageWebhookURL == "" {
			return nil, nil, &ConfigMissingError{Channel: "message", Keys: []string{"MESSAGE_WEBHOOK_URL"}}
		}

		target := cfg.MessageAdminTarget
		if target == "" {
			target = "admin"
		}
		message = &messageConfig{
			WebhookURL:  cfg.MessageWebhookURL,
			AdminTarget: target,
		}
	}

	return email, message, nil
}
