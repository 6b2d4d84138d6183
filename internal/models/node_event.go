package models

import "time"

// Event types recorded in the node event log.
const (
	EventBreakerToggled = "BREAKER_TOGGLED"
	EventPanelOpened    = "PANEL_OPENED"
	EventPanelClosed    = "PANEL_CLOSED"
	EventAccessDenied   = "ACCESS_DENIED"
	EventCompromised    = "COMPROMISED"
	EventDisturbed      = "DISTURBED"
	EventVisual         = "VISUAL"
	EventCreated        = "CREATED"
	EventRemoved        = "REMOVED"
)

// NodeEvent is a single log entry.
type NodeEvent struct {
	EventID     string    `json:"event_id"`
	NodeID      string    `json:"node_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
