package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/portosite/backend/internal/domain"
	"github.com/portosite/backend/pkg/event"
)

// pingInterval is how often the listener probes the channel for liveness.
const pingInterval = 30 * time.Second

// Listener consumes the push delivery channel: it dials the hub, waits for
// the connected handshake, and feeds notification frames into the store.
// Surfacing only happens for identifiers the session has not seen yet, so a
// pushed event and the poll that rediscovers it collapse into one signal.
//
// The listener does not reconnect. Losing the channel is non-fatal because
// the poller guarantees delivery within one interval.
type Listener struct {
	url      string
	token    string
	store    *Store
	surfacer Surfacer
	logger   *zap.Logger

	mu      sync.Mutex
	writeMu sync.Mutex // serializes frame writes (ping loop vs. close)
	conn    *websocket.Conn
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewListener creates a listener for the hub at url (ws:// or wss://, the
// full endpoint path included).
func NewListener(url, token string, store *Store, surfacer Surfacer, logger *zap.Logger) *Listener {
	return &Listener{
		url:      url,
		token:    token,
		store:    store,
		surfacer: surfacer,
		logger:   logger,
	}
}

// Start dials the hub and begins consuming frames. It returns once the
// channel is established; frames are handled on background goroutines.
func (l *Listener) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn != nil {
		return nil
	}

	header := http.Header{}
	if l.token != "" {
		header.Set("Authorization", "Bearer "+l.token)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, l.url, header)
	if err != nil {
		return err
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	ctx, cancel := context.WithCancel(ctx)
	l.conn = conn
	l.cancel = cancel
	l.done = make(chan struct{})

	go l.readLoop(conn, l.done)
	go l.pingLoop(ctx)

	return nil
}

// Stop closes the channel and waits for the read loop to exit.
func (l *Listener) Stop() {
	l.mu.Lock()
	conn, cancel, done := l.conn, l.cancel, l.done
	l.conn, l.cancel, l.done = nil, nil, nil
	l.mu.Unlock()

	if conn == nil {
		return
	}
	cancel()
	l.writeMu.Lock()
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	l.writeMu.Unlock()
	conn.Close()
	<-done
}

func (l *Listener) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				l.logger.Warn("delivery channel lost, relying on polling", zap.Error(err))
			}
			return
		}

		var env event.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			l.logger.Debug("ignoring malformed frame", zap.Error(err))
			continue
		}

		switch env.Type {
		case event.TypeConnected:
			l.logger.Info("delivery channel established")
		case event.TypePong:
			// liveness only
		case event.TypeNotification:
			var n domain.Notification
			if err := json.Unmarshal(env.Data, &n); err != nil {
				l.logger.Warn("ignoring malformed notification frame", zap.Error(err))
				continue
			}
			if l.store.ObservePush(&n) && l.surfacer != nil {
				l.surfacer.Surface(&n)
			}
		}
	}
}

func (l *Listener) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.mu.Lock()
			conn := l.conn
			l.mu.Unlock()
			if conn == nil {
				return
			}
			l.writeMu.Lock()
			err := conn.WriteMessage(websocket.TextMessage, event.Frame(event.TypePing))
			l.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
