package hub

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/portosite/backend/pkg/event"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // dashboard and API may be served from different origins
	},
}

// client is one delivery channel: a single open WebSocket between the hub
// and one dashboard session.
type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
}

// ServeWS upgrades the request into a delivery channel and admits it to the
// hub. The first frame on the wire is always the connected handshake.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, h.sendBufferLen),
	}
	c.send <- event.Frame(event.TypeConnected)

	if !h.running.Load() {
		h.logger.Warn("connection refused, hub not running", zap.String("channel_id", c.id.String()))
		conn.Close()
		return
	}
	h.register <- c

	go c.writePump()
	go c.readPump(h)
}

// readPump consumes inbound frames until the channel dies. The only frame a
// client may send is a ping, which is answered with a pong.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Debug("delivery channel read error", zap.Error(err))
			}
			return
		}

		var env event.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			continue // malformed frames are ignored, not fatal
		}
		if env.Type == event.TypePing {
			select {
			case c.send <- event.Frame(event.TypePong):
			default:
			}
		}
	}
}

// writePump drains the send channel onto the wire. A closed send channel
// (hub-side eviction) or a write error ends the channel.
func (c *client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
