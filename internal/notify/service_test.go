package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taiseel/propcore/pkg/config"
	"github.com/taiseel/propcore/pkg/httputil"
	"github.com/taiseel/propcore/pkg/logger"
)

func testClient(t *testing.T) *httputil.Client {
	t.Helper()
	log := logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
	return httputil.New(log).DisableRetry()
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

// captureServer records every JSON body posted to it and answers with the
// given status.
type captureServer struct {
	mu     sync.Mutex
	bodies []map[string]any
	status int
}

func newCaptureServer(status int) (*captureServer, *httptest.Server) {
	cs := &captureServer{status: status}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		cs.mu.Lock()
		cs.bodies = append(cs.bodies, body)
		cs.mu.Unlock()
		w.WriteHeader(cs.status)
	}))
	return cs, srv
}

func (cs *captureServer) received() []map[string]any {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]map[string]any(nil), cs.bodies...)
}

func TestFindLeadEmail(t *testing.T) {
	tests := []struct {
		name string
		lead map[string]any
		want string
	}{
		{
			name: "nil lead",
			lead: nil,
			want: "",
		},
		{
			name: "canonical key preferred over incidental values",
			lead: map[string]any{
				"notes":         "reach me at other@example.com",
				"Email Address": "lead@example.com",
			},
			want: "lead@example.com",
		},
		{
			name: "lowercase key",
			lead: map[string]any{"email": "lead@example.com"},
			want: "lead@example.com",
		},
		{
			name: "falls back to any email-shaped value",
			lead: map[string]any{"contact": "walkin@example.com"},
			want: "walkin@example.com",
		},
		{
			name: "non-string values are skipped",
			lead: map[string]any{"email": 42, "First Name": "Amina"},
			want: "",
		},
		{
			name: "no email anywhere",
			lead: map[string]any{"First Name": "Amina", "Phone": "050-0000000"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindLeadEmail(tt.lead))
		})
	}
}

func TestSendLeadConfirmation_EmailChannel(t *testing.T) {
	cs, srv := newCaptureServer(http.StatusOK)
	defer srv.Close()

	cfg := validEmailConfig()
	cfg.EmailServiceURL = srv.URL

	svc, err := NewService(cfg, testClient(t), testLogger())
	require.NoError(t, err)

	receipt, err := svc.SendLeadConfirmation(context.Background(), map[string]any{
		"Email Address": "lead@example.com",
	})
	require.NoError(t, err)
	assert.True(t, receipt.EmailSent)
	assert.False(t, receipt.MessageSent)

	bodies := cs.received()
	require.Len(t, bodies, 1)
	assert.Equal(t, "lead@example.com", bodies[0]["to"])
	assert.Equal(t, "smtp-relay", bodies[0]["provider"])
}

func TestSendLeadConfirmation_NoResolvableEmailSkipsEmail(t *testing.T) {
	cs, srv := newCaptureServer(http.StatusOK)
	defer srv.Close()

	cfg := validEmailConfig()
	cfg.EmailServiceURL = srv.URL

	svc, err := NewService(cfg, testClient(t), testLogger())
	require.NoError(t, err)

	receipt, err := svc.SendLeadConfirmation(context.Background(), map[string]any{
		"First Name": "Amina",
	})
	require.NoError(t, err)
	assert.False(t, receipt.EmailSent)
	assert.Empty(t, cs.received())
}

func TestSendLeadConfirmation_MessageChannel(t *testing.T) {
	cs, srv := newCaptureServer(http.StatusOK)
	defer srv.Close()

	cfg := config.NotifyConfig{
		MessageEnabled:     true,
		MessageWebhookURL:  srv.URL,
		MessageAdminTarget: "front-desk",
	}

	svc, err := NewService(cfg, testClient(t), testLogger())
	require.NoError(t, err)

	receipt, err := svc.SendLeadConfirmation(context.Background(), map[string]any{
		"Email": "lead@example.com",
	})
	require.NoError(t, err)
	assert.True(t, receipt.MessageSent)
	assert.False(t, receipt.EmailSent)

	bodies := cs.received()
	require.Len(t, bodies, 1)
	assert.Equal(t, "front-desk", bodies[0]["target"])
	assert.Equal(t, "lead_confirmation", bodies[0]["type"])
}

func TestSendAdminLeadAlert_DeliveryFailure(t *testing.T) {
	_, srv := newCaptureServer(http.StatusBadGateway)
	defer srv.Close()

	cfg := validEmailConfig()
	cfg.EmailServiceURL = srv.URL

	svc, err := NewService(cfg, testClient(t), testLogger())
	require.NoError(t, err)

	receipt, err := svc.SendAdminLeadAlert(context.Background(), map[string]any{
		"Email": "lead@example.com",
	})
	assert.False(t, receipt.EmailSent)

	var de *DeliveryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "email", de.Channel)
	assert.Equal(t, KindAlert, de.Kind)
	assert.Equal(t, http.StatusBadGateway, de.Status)
}

func TestSendAdminLeadAlert_TargetsAdminEmail(t *testing.T) {
	cs, srv := newCaptureServer(http.StatusOK)
	defer srv.Close()

	cfg := validEmailConfig()
	cfg.EmailServiceURL = srv.URL

	svc, err := NewService(cfg, testClient(t), testLogger())
	require.NoError(t, err)

	receipt, err := svc.SendAdminLeadAlert(context.Background(), map[string]any{
		"First Name": "NoEmail",
	})
	require.NoError(t, err)
	assert.True(t, receipt.EmailSent)

	bodies := cs.received()
	require.Len(t, bodies, 1)
	assert.Equal(t, "admin@taiseel.example", bodies[0]["to"])
}
