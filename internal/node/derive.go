package node

import (
	"math"
	"time"
)

// Config holds the tuning constants of a node.
type Config struct {
	// HighPowerThreshold is the charge fraction above which the node reports Full.
	HighPowerThreshold float64
	// VisualsChangeDelay is the minimum interval between visual/UI emissions.
	VisualsChangeDelay time.Duration
	// ScrewTime is the duration of a panel toggle.
	ScrewTime time.Duration
	// FullChargeTolerance is the absolute tolerance for "charge fraction is 1".
	FullChargeTolerance float64
	// PowerDeltaTolerance is the relative tolerance for "receiving matches supply".
	PowerDeltaTolerance float64
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		HighPowerThreshold:  0.9,
		VisualsChangeDelay:  time.Second,
		ScrewTime:           2 * time.Second,
		FullChargeTolerance: 1e-5,
		PowerDeltaTolerance: 0.1,
	}
}

// DeriveChargeState maps a reading to the charge indicator. A compromised node
// always reports Compromised.
func DeriveChargeState(r Reading, compromised bool, cfg Config) ChargeState {
	if compromised {
		return ChargeCompromised
	}

	if r.ChargeFraction() > cfg.HighPowerThreshold {
		return ChargeFull
	}

	delta := r.CurrentSupply - r.CurrentReceiving
	if delta < 0 {
		return ChargeCharging
	}
	return ChargeLacking
}

// DeriveExternalPowerState classifies the incoming network feed.
func DeriveExternalPowerState(r Reading, cfg Config) ExternalPowerState {
	// a saturated battery draws nothing, which is not a missing feed
	if r.CurrentReceiving == 0 && !closeTo(r.ChargeFraction(), 1, cfg.FullChargeTolerance) {
		return ExternalNone
	}

	delta := r.CurrentReceiving - r.CurrentSupply
	if !closeToPercent(delta, 0, cfg.PowerDeltaTolerance) && delta < 0 {
		return ExternalLow
	}
	return ExternalGood
}

func closeTo(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// closeToPercent compares with an epsilon scaled by the larger magnitude,
// floored at the percentage itself.
func closeToPercent(a, b, percentage float64) bool {
	epsilon := math.Max(math.Max(math.Abs(a), math.Abs(b))*percentage, percentage)
	return math.Abs(a-b) <= epsilon
}
