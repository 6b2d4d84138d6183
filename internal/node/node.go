package node

import (
	"math"
	"time"
)

// Deps are the collaborators of a node. Battery is required; every other
// field is optional and a nil value skips the corresponding step.
type Deps struct {
	Battery NetworkBattery

	Visuals VisualSink
	UI      UISink
	Sounds  SoundSink
	Notices Notifier
	Access  AccessChecker
	Tools   ToolEngine

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Node is one access node. It is not safe for concurrent use; the host
// serializes events per node.
type Node struct {
	id          string
	cfg         Config
	requirement AccessRequirement
	deps        Deps
	now         func() time.Time

	breakerEnabled bool
	panelOpen      bool
	compromised    bool

	gate *Gate
}

// New creates a node with the breaker on and the panel closed, and pushes the
// breaker intent into the battery. A nil requirement means anyone may operate
// the breaker.
func New(id string, cfg Config, requirement AccessRequirement, deps Deps) *Node {
	if deps.Battery == nil {
		panic("node: Battery is required")
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	n := &Node{
		id:             id,
		cfg:            cfg,
		requirement:    requirement,
		deps:           deps,
		now:            now,
		breakerEnabled: true,
		gate:           NewGate(cfg.VisualsChangeDelay),
	}
	deps.Battery.SetCanDischarge(n.breakerEnabled)
	return n
}

// ID returns the node identity.
func (n *Node) ID() string { return n.id }

// BreakerEnabled reports the manual breaker intent.
func (n *Node) BreakerEnabled() bool { return n.breakerEnabled }

// Compromised reports whether the compromise override has fired.
func (n *Node) Compromised() bool { return n.compromised }

// Gate exposes the debounce gate for inspection.
func (n *Node) Gate() *Gate { return n.gate }

// ChargeState derives the current charge indicator without touching the gate.
func (n *Node) ChargeState() ChargeState {
	return DeriveChargeState(n.deps.Battery.Reading(), n.compromised, n.cfg)
}

// ExternalPowerState derives the current feed classification without touching the gate.
func (n *Node) ExternalPowerState() ExternalPowerState {
	return DeriveExternalPowerState(n.deps.Battery.Reading(), n.cfg)
}

// Refresh re-derives both states and emits whatever the gate lets through.
func (n *Node) Refresh() {
	t := n.now()
	r := n.deps.Battery.Reading()

	charge := DeriveChargeState(r, n.compromised, n.cfg)
	if n.gate.UpdateCharge(charge, t) && n.deps.Visuals != nil {
		n.deps.Visuals.SetVisual(n.id, VisualChargeState, charge.String())
	}

	ext := DeriveExternalPowerState(r, n.cfg)
	if n.gate.UpdateExternal(ext, t) {
		n.pushUI(r)
	}
}

// UIState builds the snapshot from the last emitted external state.
func (n *Node) UIState() UIState {
	return n.uiState(n.deps.Battery.Reading())
}

func (n *Node) uiState(r Reading) UIState {
	ext, _ := n.gate.LastExternal()
	return UIState{
		BreakerEnabled: n.breakerEnabled,
		SupplyWatts:    int(math.Ceil(r.CurrentSupply)),
		ExternalPower:  ext,
		ChargeFraction: r.ChargeFraction(),
	}
}

func (n *Node) pushUI(r Reading) {
	if n.deps.UI == nil {
		return
	}
	n.deps.UI.SetUIState(n.id, n.uiState(r))
}

func (n *Node) pushPanelVisual() {
	if n.deps.Visuals == nil {
		return
	}
	n.deps.Visuals.SetVisual(n.id, VisualPanelState, n.PanelState().String())
}

func (n *Node) play(cue Cue) {
	if n.deps.Sounds == nil {
		return
	}
	n.deps.Sounds.PlayCue(n.id, cue)
}
