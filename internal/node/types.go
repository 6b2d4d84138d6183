// Package node contains the decision logic of a power-distribution access node:
// state derivation from electrical readings, debounced visual/UI emission, the
// manual breaker, the screw panel and the two hostile overrides.
// It performs no I/O itself; every side effect goes through a collaborator
// interface and time is injected through Deps.Clock.
package node

import "time"

// ChargeState is the charge indicator shown on the node.
type ChargeState int

const (
	ChargeLacking ChargeState = iota
	ChargeCharging
	ChargeFull
	ChargeCompromised
)

func (s ChargeState) String() string {
	switch s {
	case ChargeLacking:
		return "LACKING"
	case ChargeCharging:
		return "CHARGING"
	case ChargeFull:
		return "FULL"
	case ChargeCompromised:
		return "COMPROMISED"
	default:
		return "UNKNOWN"
	}
}

// ExternalPowerState describes whether incoming network power covers the draw.
type ExternalPowerState int

const (
	ExternalNone ExternalPowerState = iota
	ExternalLow
	ExternalGood
)

func (s ExternalPowerState) String() string {
	switch s {
	case ExternalNone:
		return "NONE"
	case ExternalLow:
		return "LOW"
	case ExternalGood:
		return "GOOD"
	default:
		return "UNKNOWN"
	}
}

// PanelState is the projection of the panel_open flag.
type PanelState int

const (
	PanelClosed PanelState = iota
	PanelOpen
)

func (s PanelState) String() string {
	if s == PanelOpen {
		return "OPEN"
	}
	return "CLOSED"
}

// VisualKey names an appearance field.
type VisualKey string

const (
	VisualChargeState VisualKey = "charge_state"
	VisualPanelState  VisualKey = "panel_state"
)

// Cue is an audible/notification cue played at the node.
type Cue string

const (
	CueBreakerToggled Cue = "BREAKER_TOGGLED"
	CuePanelOpened    Cue = "PANEL_OPENED"
	CuePanelClosed    Cue = "PANEL_CLOSED"
)

// Localization keys returned by Examine and used for requester notices.
const (
	ExaminePanelOpen   = "node-examine-panel-open"
	ExaminePanelClosed = "node-examine-panel-closed"
	NoticeAccessDenied = "node-insufficient-access"
)

// ScrewingQuality is the tool quality required to toggle the panel.
const ScrewingQuality = "Screwing"

// Reading is one sample of the node's battery as seen by the power network.
// MaxCharge > 0 is guaranteed by the source.
type Reading struct {
	CurrentCharge    float64 `json:"current_charge"`
	MaxCharge        float64 `json:"max_charge"`
	CurrentSupply    float64 `json:"current_supply"`
	CurrentReceiving float64 `json:"current_receiving"`
}

// ChargeFraction returns CurrentCharge / MaxCharge.
func (r Reading) ChargeFraction() float64 {
	return r.CurrentCharge / r.MaxCharge
}

// UIState is the snapshot pushed to the node's user interface.
type UIState struct {
	BreakerEnabled bool
	SupplyWatts    int
	ExternalPower  ExternalPowerState
	ChargeFraction float64
}

// AccessRequirement lists the access tags that may operate the breaker.
// Holding any one of them is sufficient.
type AccessRequirement []string

// ToolRequest asks the tool engine for a timed operation on a node.
type ToolRequest struct {
	Tool     string
	User     string
	Target   string
	Duration time.Duration
	Quality  string
	// Instance is stamped by the host; the node leaves it empty.
	Instance string
}
