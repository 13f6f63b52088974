package hub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/portosite/backend/internal/domain"
	"github.com/portosite/backend/pkg/event"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	h := New(zap.NewNop(), 8)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)

	// Wait until the loop has flipped the running flag.
	deadline := time.After(time.Second)
	for !h.running.Load() {
		select {
		case <-deadline:
			t.Fatal("hub loop never started")
		case <-time.After(time.Millisecond):
		}
	}

	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	t.Cleanup(srv.Close)
	return h, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) event.Envelope {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	var env event.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal frame %q: %v", raw, err)
	}
	return env
}

func testNotification(title string) *domain.Notification {
	return &domain.Notification{
		ID:        uuid.New(),
		Title:     title,
		Message:   "body",
		Type:      domain.NotificationTypeMessage,
		CreatedAt: time.Now(),
	}
}

func TestConnectReceivesHandshake(t *testing.T) {
	_, srv := startHub(t)
	conn := dial(t, srv)

	if env := readEnvelope(t, conn); env.Type != event.TypeConnected {
		t.Fatalf("first frame type = %q, want %q", env.Type, event.TypeConnected)
	}
}

func TestPingIsAnsweredWithPong(t *testing.T) {
	_, srv := startHub(t)
	conn := dial(t, srv)
	readEnvelope(t, conn) // handshake

	if err := conn.WriteMessage(websocket.TextMessage, event.Frame(event.TypePing)); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if env := readEnvelope(t, conn); env.Type != event.TypePong {
		t.Fatalf("reply type = %q, want %q", env.Type, event.TypePong)
	}
}

func TestPublishFansOutToAllChannels(t *testing.T) {
	h, srv := startHub(t)

	conns := []*websocket.Conn{dial(t, srv), dial(t, srv), dial(t, srv)}
	for _, conn := range conns {
		readEnvelope(t, conn)
	}

	n := testNotification("fan-out")
	if err := h.Publish(n); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	for i, conn := range conns {
		env := readEnvelope(t, conn)
		if env.Type != event.TypeNotification {
			t.Fatalf("conn %d frame type = %q, want notification", i, env.Type)
		}
		var got domain.Notification
		if err := json.Unmarshal(env.Data, &got); err != nil {
			t.Fatalf("conn %d payload: %v", i, err)
		}
		if got.ID != n.ID {
			t.Errorf("conn %d got notification %s, want %s", i, got.ID, n.ID)
		}
	}
}

func TestPublishWithZeroChannelsIsNoOp(t *testing.T) {
	h, _ := startHub(t)

	if err := h.Publish(testNotification("nobody home")); err != nil {
		t.Fatalf("Publish with zero channels: %v", err)
	}
}

func TestPublishBeforeRunIsReportedNoOp(t *testing.T) {
	h := New(zap.NewNop(), 8)

	err := h.Publish(testNotification("too early"))
	if !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Publish before Run = %v, want ErrNotRunning", err)
	}
}

func TestDeadChannelDoesNotBlockOthers(t *testing.T) {
	h, srv := startHub(t)

	dead := dial(t, srv)
	readEnvelope(t, dead)
	live := dial(t, srv)
	readEnvelope(t, live)

	// Kill one channel at the TCP level, then publish repeatedly. The live
	// channel must receive every event regardless of what the dead one does.
	dead.Close()
	time.Sleep(50 * time.Millisecond)

	for i := 0; i < 3; i++ {
		if err := h.Publish(testNotification("survivor")); err != nil {
			t.Fatalf("Publish %d: %v", i, err)
		}
	}
	for i := 0; i < 3; i++ {
		if env := readEnvelope(t, live); env.Type != event.TypeNotification {
			t.Fatalf("live channel frame %d type = %q, want notification", i, env.Type)
		}
	}
}

func TestShutdownClosesChannels(t *testing.T) {
	h := New(zap.NewNop(), 8)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	deadline := time.After(time.Second)
	for !h.running.Load() {
		select {
		case <-deadline:
			t.Fatal("hub loop never started")
		case <-time.After(time.Millisecond):
		}
	}

	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	conn := dial(t, srv)
	readEnvelope(t, conn)

	cancel()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return // channel closed by the hub
		}
	}
}
