// Package realtime pushes analytics events to websocket subscribers.
package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/p-n-ai/pai-insight/internal/attempt"
)

const (
	defaultBuffer = 16
	writeTimeout  = 5 * time.Second
)

type subscriber struct {
	userID   string
	outbound chan attempt.Event
}

// Hub fans logged events out to connected websocket clients. It implements
// attempt.EventLogger so it can sit behind attempt.Tee.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
	buffer      int
	origins     []string
}

// Option configures a Hub.
type Option func(*Hub)

// WithBuffer sets how many events may queue per subscriber before new
// events are dropped for it.
func WithBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// WithOriginPatterns allows cross-origin websocket clients from the given
// host patterns.
func WithOriginPatterns(patterns ...string) Option {
	return func(h *Hub) {
		h.origins = append(h.origins, patterns...)
	}
}

// NewHub creates an empty hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		subscribers: make(map[*subscriber]struct{}),
		buffer:      defaultBuffer,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// LogEvent queues event for every matching subscriber. It never blocks.
func (h *Hub) LogEvent(_ context.Context, event attempt.Event) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subscribers {
		if s.userID != "" && s.userID != event.UserID {
			continue
		}
		select {
		case s.outbound <- event:
		default:
			slog.Warn("dropping event for slow subscriber", "type", event.EventType, "user_id", s.userID)
		}
	}
	return nil
}

// Subscribers returns the number of connected clients.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// ServeHTTP upgrades the request to a websocket and streams events until the
// client goes away. A userId query parameter limits the stream to that user's
// events.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// The server's WriteTimeout would otherwise cut long-lived streams.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	s := &subscriber{
		userID:   r.URL.Query().Get("userId"),
		outbound: make(chan attempt.Event, h.buffer),
	}
	h.add(s)
	defer h.remove(s)

	// Clients only listen; CloseRead handles control frames and cancels ctx
	// when the peer disconnects.
	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-s.outbound:
			if err := write(ctx, conn, event); err != nil {
				slog.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, event attempt.Event) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, event)
}

func (h *Hub) add(s *subscriber) {
	h.mu.Lock()
	h.subscribers[s] = struct{}{}
	h.mu.Unlock()
	slog.Debug("websocket subscriber added", "user_id", s.userID)
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	delete(h.subscribers, s)
	h.mu.Unlock()
	slog.Debug("websocket subscriber removed", "user_id", s.userID)
}
