package messaging

import (
	"context"
	"encoding/json"
)

// Broker defines the interface for message brokers. Consumers live in
// downstream systems; this side only publishes.
type Broker interface {
	Publish(ctx context.Context, channel string, message *Message) error
	Close() error
}

// Message is the wire envelope for published events.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}
