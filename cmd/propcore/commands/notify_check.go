package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taiseel/propcore/internal/notify"
	"github.com/taiseel/propcore/pkg/config"
	"github.com/taiseel/propcore/pkg/httputil"
	"github.com/taiseel/propcore/pkg/logger"
)

// notifyCheckCmd validates the notification config and optionally sends a
// test admin alert
var notifyCheckCmd = &cobra.Command{
	Use:   "notify-check",
	Short: "Validate notification channel config",
	Long: `Validate the notification channel configuration the same way the
API server does at startup. With --send, also deliver a test admin alert
over every enabled channel.

Example:
  go run ./cmd/propcore notify-check
  go run ./cmd/propcore notify-check --send`,
	RunE: runNotifyCheck,
}

var notifySend bool

func init() {
	rootCmd.AddCommand(notifyCheckCmd)

	notifyCheckCmd.Flags().BoolVar(&notifySend, "send", false, "send a test admin alert")
}

func runNotifyCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	notifier, err := notify.NewService(cfg.Notify, httputil.New(log), log)
	if err != nil {
		return err
	}

	fmt.Printf("Notification config OK (email=%v, message=%v)\n",
		notifier.EmailEnabled(), notifier.MessageEnabled())

	if !notifySend {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	receipt, err := notifier.SendAdminLeadAlert(ctx, map[string]any{
		"First Name":    "Test",
		"Last Name":     "Alert",
		"Email Address": "test-alert@example.com",
	})
	if err != nil {
		return fmt.Errorf("test alert: %w", err)
	}

	fmt.Printf("Test alert sent (emailSent=%v, messageSent=%v)\n",
		receipt.EmailSent, receipt.MessageSent)
	return nil
}
