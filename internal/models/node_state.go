package models

import "time"

// NodeState is the last UI snapshot pushed by a node.
type NodeState struct {
	NodeID         string    `json:"node_id"`
	BreakerEnabled bool      `json:"breaker_enabled"`
	SupplyWatts    int       `json:"supply_watts"`
	ExternalPower  string    `json:"external_power"` // NONE | LOW | GOOD
	ChargeFraction float64   `json:"charge_fraction"`
	UpdatedAt      time.Time `json:"updated_at"`
}
