package live

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dialFeed(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func waitForSubscribers(t *testing.T, feed *Feed, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for feed.Len() != want {
		if time.Now().After(deadline) {
			t.Fatalf("subscribers = %d, want %d", feed.Len(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFeedBroadcast(t *testing.T) {
	feed := NewFeed(discardLogger(), time.Minute, nil)
	defer feed.Close()
	srv := httptest.NewServer(feed)
	defer srv.Close()

	conn := dialFeed(t, srv)
	defer conn.Close()
	waitForSubscribers(t, feed, 1)

	feed.Broadcast(Event{Type: EventTranscriptUpdated, Turns: 2})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Type != EventTranscriptUpdated || ev.Turns != 2 {
		t.Errorf("event = %+v", ev)
	}
}

func TestFeedFanOut(t *testing.T) {
	feed := NewFeed(discardLogger(), time.Minute, nil)
	defer feed.Close()
	srv := httptest.NewServer(feed)
	defer srv.Close()

	first := dialFeed(t, srv)
	defer first.Close()
	second := dialFeed(t, srv)
	defer second.Close()
	waitForSubscribers(t, feed, 2)

	feed.Broadcast(Event{Type: EventTranscriptUpdated, Turns: 4})

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, _, err := conn.ReadMessage(); err != nil {
			t.Errorf("subscriber missed the broadcast: %v", err)
		}
	}
}

func TestFeedDropsClosedSubscriber(t *testing.T) {
	feed := NewFeed(discardLogger(), time.Minute, nil)
	defer feed.Close()
	srv := httptest.NewServer(feed)
	defer srv.Close()

	conn := dialFeed(t, srv)
	waitForSubscribers(t, feed, 1)

	conn.Close()
	waitForSubscribers(t, feed, 0)
}

func TestFeedCloseDisconnectsSubscribers(t *testing.T) {
	feed := NewFeed(discardLogger(), time.Minute, nil)
	srv := httptest.NewServer(feed)
	defer srv.Close()

	conn := dialFeed(t, srv)
	defer conn.Close()
	waitForSubscribers(t, feed, 1)

	feed.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("read succeeded after Close")
	}
	if feed.Len() != 0 {
		t.Errorf("subscribers after Close = %d", feed.Len())
	}
}

func TestFeedRejectsDisallowedOrigin(t *testing.T) {
	feed := NewFeed(discardLogger(), time.Minute, map[string]struct{}{"https://app.example": {}})
	defer feed.Close()
	srv := httptest.NewServer(feed)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	headers := map[string][]string{"Origin": {"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, headers)
	if err == nil {
		t.Fatal("dial succeeded from a disallowed origin")
	}
	if resp != nil {
		resp.Body.Close()
	}
}
