package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/terra-clan/agent-registry/internal/catalog"
)

const (
	watchWriteWait  = 10 * time.Second
	watchPongWait   = 60 * time.Second
	watchPingPeriod = (watchPongWait * 9) / 10
	watchBuffer     = 4
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SnapshotEvent announces the snapshot currently served
type SnapshotEvent struct {
	Type    string    `json:"type"`
	Version string    `json:"version"`
	Total   int       `json:"total"`
	BuiltAt time.Time `json:"builtAt"`
}

func snapshotEvent(c *catalog.Catalog) SnapshotEvent {
	return SnapshotEvent{
		Type:    "snapshot",
		Version: c.Version(),
		Total:   c.Len(),
		BuiltAt: c.BuiltAt(),
	}
}

// Hub fans snapshot events out to websocket watchers. A watcher that cannot
// keep up is disconnected rather than allowed to block a swap.
type Hub struct {
	mu       sync.Mutex
	watchers map[chan SnapshotEvent]struct{}
	closed   bool
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{watchers: make(map[chan SnapshotEvent]struct{})}
}

func (h *Hub) subscribe() (chan SnapshotEvent, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	ch := make(chan SnapshotEvent, watchBuffer)
	h.watchers[ch] = struct{}{}
	return ch, true
}

func (h *Hub) unsubscribe(ch chan SnapshotEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.watchers[ch]; ok {
		delete(h.watchers, ch)
		close(ch)
	}
}

// Broadcast queues ev for every watcher
func (h *Hub) Broadcast(ev SnapshotEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.watchers {
		select {
		case ch <- ev:
		default:
			slog.Warn("dropping slow snapshot watcher")
			delete(h.watchers, ch)
			close(ch)
		}
	}
}

// Len returns the number of connected watchers
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.watchers)
}

// Close disconnects every watcher and rejects new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for ch := range h.watchers {
		delete(h.watchers, ch)
		close(ch)
	}
}

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	c := SnapshotFromContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	events, ok := s.hub.subscribe()
	if !ok {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		return
	}
	defer s.hub.unsubscribe(events)

	slog.Info("snapshot watcher connected", "remote_addr", r.RemoteAddr)

	// Reader: watchers send nothing, but reading processes pongs and close frames
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(watchPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(watchPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Debug("websocket read error", "error", err)
				}
				return
			}
		}
	}()

	if err := sendWatchEvent(conn, snapshotEvent(c)); err != nil {
		return
	}

	ticker := time.NewTicker(watchPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			slog.Info("snapshot watcher disconnected", "remote_addr", r.RemoteAddr)
			return
		case ev, ok := <-events:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(watchWriteWait))
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := sendWatchEvent(conn, ev); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(watchWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func sendWatchEvent(conn *websocket.Conn, ev SnapshotEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Error("failed to marshal snapshot event", "error", err)
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(watchWriteWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Debug("failed to send snapshot event", "error", err)
		return err
	}
	return nil
}
