// Package mqtt publishes node appearance data to an MQTT broker.
package mqtt

import (
	"encoding/json"
	"strings"
	"time"
)

// VisualsSuffix is appended to <prefix>/<node> to form the appearance topic.
const VisualsSuffix = "visuals"

// Publisher publishes appearance updates.
type Publisher interface {
	// PublishVisual sends one appearance update. Failures are reported, never fatal.
	PublishVisual(u VisualUpdate) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// VisualUpdate is one appearance field change on one node.
type VisualUpdate struct {
	Timestamp time.Time
	NodeID    string
	Key       string
	Value     string
}

// Payload is the JSON body of an appearance message.
type Payload struct {
	Node      string `json:"node"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Timestamp string `json:"timestamp"`
}

// FormatPayload creates the JSON payload for an appearance update.
func FormatPayload(u VisualUpdate) ([]byte, error) {
	return json.Marshal(Payload{
		Node:      u.NodeID,
		Key:       u.Key,
		Value:     u.Value,
		Timestamp: u.Timestamp.UTC().Format(time.RFC3339),
	})
}

// Topic builds the appearance topic for a node.
func Topic(prefix, nodeID string) string {
	return strings.TrimSuffix(prefix, "/") + "/" + nodeID + "/" + VisualsSuffix
}

// NopPublisher drops every update. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishVisual(VisualUpdate) error { return nil }
func (NopPublisher) Close() error                     { return nil }
func (NopPublisher) IsConnected() bool                { return false }
