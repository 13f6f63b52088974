// Package event defines the JSON frames exchanged between the broadcast hub
// and a delivery channel. Both the server hub and the client listener speak
// this envelope.
package event

import "encoding/json"

const (
	// TypeConnected is sent by the server once, when a channel opens.
	TypeConnected = "connected"
	// TypeNotification carries one notification payload, server to client.
	TypeNotification = "notification"
	// TypePing is a client liveness probe with no semantic effect.
	TypePing = "ping"
	// TypePong answers a ping.
	TypePong = "pong"
)

// Envelope is the wire frame. Data is only present on notification frames.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Notification wraps a payload into a notification frame.
func Notification(payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: TypeNotification, Data: data})
}

// Frame marshals a data-less frame of the given type.
func Frame(frameType string) []byte {
	b, _ := json.Marshal(Envelope{Type: frameType})
	return b
}
