package service

import (
	"time"

	"power_node/internal/node"
)

// CreateNodeParams describes a node to spawn. An empty Access list means the
// breaker is unrestricted.
type CreateNodeParams struct {
	ID     string
	Access []string
}

// FlowParams adjusts the simulated load and feed of a node. Nil fields keep
// their current value.
type FlowParams struct {
	Load *float64
	Feed *float64
}

// NodeSummary is the live view of one hosted node.
type NodeSummary struct {
	ID            string   `json:"id"`
	BreakerOn     bool     `json:"breaker_enabled"`
	Panel         string   `json:"panel"`
	Compromised   bool     `json:"compromised"`
	ChargeState   string   `json:"charge_state"`
	ExternalPower string   `json:"external_power"`
	ToolPending   bool     `json:"tool_pending"`
	Access        []string `json:"access,omitempty"`
}

// Examination is the rendered examine text of a node.
type Examination struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// LogFilter supports history filtering by node, time range and type.
type LogFilter struct {
	NodeID string
	From   time.Time // inclusive; zero means no lower bound
	To     time.Time // inclusive; zero means no upper bound
	Type   string    // "", "BREAKER_TOGGLED", "PANEL_OPENED", "ACCESS_DENIED", ...
}

var examineText = map[string]string{
	node.ExaminePanelOpen:   "The maintenance panel is open.",
	node.ExaminePanelClosed: "The maintenance panel is screwed shut.",
}
