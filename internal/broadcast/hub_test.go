package broadcast

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taiseel/propcore/pkg/config"
	"github.com/taiseel/propcore/pkg/logger"
)

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	log := logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
	hub := NewHub(log)
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.Count() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("subscriber count never reached %d, at %d", want, hub.Count())
}

func TestHub_PublishReachesSubscriber(t *testing.T) {
	hub, srv := newTestHub(t)

	conn := dial(t, srv)
	waitForCount(t, hub, 1)

	hub.Publish("unit_updated", map[string]any{"id": float64(7)})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))

	assert.Equal(t, "unit_updated", ev.Type)
	payload, ok := ev.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(7), payload["id"])
	assert.False(t, ev.Time.IsZero())
}

func TestHub_FanOutToMultipleSubscribers(t *testing.T) {
	hub, srv := newTestHub(t)

	connA := dial(t, srv)
	connB := dial(t, srv)
	waitForCount(t, hub, 2)

	hub.Publish("valuation_resynced", nil)

	for _, conn := range []*websocket.Conn{connA, connB} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var ev Event
		require.NoError(t, conn.ReadJSON(&ev))
		assert.Equal(t, "valuation_resynced", ev.Type)
	}
}

func TestHub_SubscriberRemovedOnClose(t *testing.T) {
	hub, srv := newTestHub(t)

	conn := dial(t, srv)
	waitForCount(t, hub, 1)

	conn.Close()
	waitForCount(t, hub, 0)
}

func TestHub_CloseDisconnectsAll(t *testing.T) {
	hub, srv := newTestHub(t)

	dial(t, srv)
	dial(t, srv)
	waitForCount(t, hub, 2)

	hub.Close()
	assert.Equal(t, 0, hub.Count())
}
