package hub

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/portosite/backend/internal/domain"
	"github.com/portosite/backend/pkg/event"
)

// ErrNotRunning is returned by Publish when the hub loop has not been
// started. Callers on the write path treat it as a reportable no-op.
var ErrNotRunning = errors.New("hub: not running")

// Hub is the process-wide fan-out point for notification events. It holds
// the set of open delivery channels and pushes every published notification
// to each of them, best-effort and at-most-once. It buffers nothing and
// retries nothing; the polling path is the delivery guarantee.
//
// One hub is constructed at process start and injected wherever publishing
// is needed. The client set is owned exclusively by the Run loop, so no
// locking is required around it.
type Hub struct {
	logger *zap.Logger

	register   chan *client
	unregister chan *client
	broadcast  chan []byte

	clients map[*client]bool

	sendBufferLen int
	running       atomic.Bool
}

func New(logger *zap.Logger, sendBufferLen int) *Hub {
	if sendBufferLen <= 0 {
		sendBufferLen = 256
	}
	return &Hub{
		logger:        logger,
		register:      make(chan *client),
		unregister:    make(chan *client),
		broadcast:     make(chan []byte, 64),
		clients:       make(map[*client]bool),
		sendBufferLen: sendBufferLen,
	}
}

// Run owns the client set until ctx is cancelled. It must be running before
// any channel connects or any notification is published.
func (h *Hub) Run(ctx context.Context) {
	if !h.running.CompareAndSwap(false, true) {
		return
	}
	defer h.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			h.logger.Debug("delivery channel opened", zap.String("channel_id", c.id.String()))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				h.logger.Debug("delivery channel closed", zap.String("channel_id", c.id.String()))
			}

		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Full buffer means a dead or stalled channel.
					// Evict it so the other channels are unaffected.
					h.drop(c)
					h.logger.Warn("dropping slow delivery channel", zap.String("channel_id", c.id.String()))
				}
			}
		}
	}
}

// Publish fans one created notification out to every open channel. It never
// blocks the caller: if the hub is not running it reports a no-op, and if
// the loop cannot keep up the event is dropped (clients reconcile it on the
// next poll).
func (h *Hub) Publish(n *domain.Notification) error {
	payload, err := event.Notification(n)
	if err != nil {
		return err
	}

	if !h.running.Load() {
		h.logger.Warn("publish with hub not running", zap.String("notification_id", n.ID.String()))
		return ErrNotRunning
	}

	select {
	case h.broadcast <- payload:
		return nil
	default:
		h.logger.Warn("hub broadcast queue full, event dropped", zap.String("notification_id", n.ID.String()))
		return nil
	}
}

// drop removes a client and closes its send channel. Only the Run loop may
// call this.
func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
}
