// Package live pushes transcript-update notifications to WebSocket
// subscribers so a UI can refresh without polling. It never carries
// partial responses; events fire only after a turn has fully completed.
package live

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one feed notification.
type Event struct {
	Type  string `json:"type"` // "transcript_updated"
	Turns int    `json:"turns"`
}

// EventTranscriptUpdated fires after a pipeline invocation appended turns.
const EventTranscriptUpdated = "transcript_updated"

// Feed fans one event stream out to every connected subscriber.
type Feed struct {
	logger       *slog.Logger
	pingInterval time.Duration
	writeTimeout time.Duration
	upgrader     websocket.Upgrader

	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// NewFeed creates a feed. allowedOrigins mirrors the gateway CORS
// allowlist; empty means same-origin browsers and non-browser clients only.
func NewFeed(logger *slog.Logger, pingInterval time.Duration, allowedOrigins map[string]struct{}) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	if pingInterval <= 0 {
		pingInterval = 20 * time.Second
	}
	return &Feed{
		logger:       logger,
		pingInterval: pingInterval,
		writeTimeout: 5 * time.Second,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowedOrigins[origin]
				return ok
			},
		},
		subs: make(map[*subscriber]struct{}),
	}
}

// ServeHTTP upgrades the request and subscribes it to the feed.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		f.logger.Warn("live upgrade failed", "error", err)
		return
	}

	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, 8),
		done: make(chan struct{}),
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		conn.Close()
		return
	}
	f.subs[sub] = struct{}{}
	f.mu.Unlock()

	go f.writeLoop(sub)
	f.readLoop(sub)
}

// Broadcast delivers an event to every subscriber. Slow subscribers drop
// events rather than blocking the turn that produced them.
func (f *Feed) Broadcast(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		f.logger.Error("marshal live event", "error", err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for sub := range f.subs {
		select {
		case sub.send <- payload:
		default:
		}
	}
}

// Len reports the current subscriber count.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// Close disconnects every subscriber and rejects new ones.
func (f *Feed) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	subs := make([]*subscriber, 0, len(f.subs))
	for sub := range f.subs {
		subs = append(subs, sub)
	}
	f.mu.Unlock()

	for _, sub := range subs {
		f.drop(sub)
	}
}

func (f *Feed) writeLoop(sub *subscriber) {
	ticker := time.NewTicker(f.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case payload := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(f.writeTimeout))
			if err := sub.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				f.drop(sub)
				return
			}
		case <-ticker.C:
			sub.conn.SetWriteDeadline(time.Now().Add(f.writeTimeout))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				f.drop(sub)
				return
			}
		case <-sub.done:
			return
		}
	}
}

// readLoop discards inbound messages; the feed is one-way. It exists to
// notice closed connections promptly.
func (f *Feed) readLoop(sub *subscriber) {
	defer f.drop(sub)
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (f *Feed) drop(sub *subscriber) {
	f.mu.Lock()
	_, present := f.subs[sub]
	delete(f.subs, sub)
	f.mu.Unlock()

	if present {
		close(sub.done)
		sub.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		sub.conn.Close()
	}
}
