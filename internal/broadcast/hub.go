package broadcast

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/taiseel/propcore/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

// Event is one live update pushed to subscribers
type Event struct {
	Type    string    `json:"type"`
	Payload any       `json:"payload,omitempty"`
	Time    time.Time `json:"time"`
}

// Hub is an explicit subscriber registry for live unit and valuation
// updates. Subscribers are owned here, not in ambient module state; a slow
// subscriber is dropped rather than blocking the publisher.
type Hub struct {
	logger      *logger.Logger
	upgrader    websocket.Upgrader
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
}

type subscriber struct {
	conn *websocket.Conn
	send chan Event
}

// NewHub creates an empty hub
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		logger: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Front end is served from a separate static host
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		subscribers: make(map[*subscriber]struct{}),
	}
}

// Count returns the number of active subscribers
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Publish fans an event out to every subscriber. Subscribers whose send
// buffer is full are disconnected.
func (h *Hub) Publish(event string, payload any) {
	ev := Event{
		Type:    event,
		Payload: payload,
		Time:    time.Now().UTC(),
	}

	h.mu.RLock()
	var stale []*subscriber
	for sub := range h.subscribers {
		select {
		case sub.send <- ev:
		default:
			stale = append(stale, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range stale {
		h.logger.Warn("Dropping slow live subscriber")
		h.remove(sub)
	}
}

// ServeHTTP upgrades the request to a websocket and registers the
// subscriber until the connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	sub := &subscriber{
		conn: conn,
		send: make(chan Event, sendBufferSize),
	}

	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	count := len(h.subscribers)
	h.mu.Unlock()

	h.logger.WithField("subscribers", count).Debug("Live subscriber connected")

	go h.writePump(sub)
	go h.readPump(sub)
}

// Close disconnects all subscribers
func (h *Hub) Close() {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		h.remove(sub)
	}
}

func (h *Hub) remove(sub *subscriber) {
	// send channel is closed under the write lock so Publish, which sends
	// under the read lock, can never race the close
	h.mu.Lock()
	if _, ok := h.subscribers[sub]; ok {
		delete(h.subscribers, sub)
		close(sub.send)
	}
	h.mu.Unlock()

	sub.conn.Close()
}

// readPump discards inbound frames; it exists to observe the close
// handshake and pong replies.
func (h *Hub) readPump(sub *subscriber) {
	defer h.remove(sub)

	sub.conn.SetReadLimit(512)
	sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump pushes queued events and keepalive pings to one subscriber
func (h *Hub) writePump(sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				sub.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sub.conn.WriteJSON(ev); err != nil {
				return
			}

		case <-ticker.C:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
