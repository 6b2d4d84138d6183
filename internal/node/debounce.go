package node

import "time"

// Gate suppresses visual and UI churn from per-tick readings. It is the only
// writer of the last emitted states.
type Gate struct {
	delay time.Duration

	lastCharge     ChargeState
	lastChargeTime time.Time

	lastExternal ExternalPowerState
	lastUIUpdate time.Time
}

// NewGate creates a gate with the given minimum emission interval.
func NewGate(delay time.Duration) *Gate {
	return &Gate{delay: delay}
}

// UpdateCharge reports whether a charge state should be emitted. A change that
// arrives before the delay has elapsed is dropped, not queued.
func (g *Gate) UpdateCharge(s ChargeState, now time.Time) bool {
	if s == g.lastCharge || now.Sub(g.lastChargeTime) < g.delay {
		return false
	}
	g.lastCharge = s
	g.lastChargeTime = now
	return true
}

// UpdateExternal reports whether a UI snapshot should be pushed: on any change,
// or when the delay has elapsed so the watt readout stays fresh.
func (g *Gate) UpdateExternal(s ExternalPowerState, now time.Time) bool {
	if s == g.lastExternal && now.Sub(g.lastUIUpdate) < g.delay {
		return false
	}
	g.lastExternal = s
	g.lastUIUpdate = now
	return true
}

// LastCharge returns the last emitted charge state and its time.
func (g *Gate) LastCharge() (ChargeState, time.Time) {
	return g.lastCharge, g.lastChargeTime
}

// LastExternal returns the last emitted external power state and its time.
func (g *Gate) LastExternal() (ExternalPowerState, time.Time) {
	return g.lastExternal, g.lastUIUpdate
}
