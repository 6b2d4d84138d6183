package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"power_node/internal/models"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

const (
	upsertStateSQL = `
		INSERT INTO node_state (node_id, breaker_enabled, supply_watts, external_power, charge_fraction, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(node_id) DO UPDATE SET
			breaker_enabled=excluded.breaker_enabled,
			supply_watts=excluded.supply_watts,
			external_power=excluded.external_power,
			charge_fraction=excluded.charge_fraction,
			updated_at=excluded.updated_at
	`

	selectStateSQL = `
		SELECT node_id, breaker_enabled, supply_watts, external_power, charge_fraction, updated_at
		FROM node_state WHERE node_id=?
	`

	deleteStateSQL = `DELETE FROM node_state WHERE node_id=?`
)

// Save upserts the snapshot row of a node. A zero UpdatedAt is stamped with now.
func (r *StateSQLite) Save(ctx context.Context, state models.NodeState) error {
	ts := state.UpdatedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := r.db.ExecContext(ctx, upsertStateSQL,
		state.NodeID,
		state.BreakerEnabled,
		state.SupplyWatts,
		state.ExternalPower,
		state.ChargeFraction,
		formatTime(ts),
	)
	if err != nil {
		return fmt.Errorf("save state of node %q: %w", state.NodeID, err)
	}
	return nil
}

// Load fetches the snapshot of a node. A node that never pushed a snapshot
// yields the zero value and no error.
func (r *StateSQLite) Load(ctx context.Context, nodeID string) (models.NodeState, error) {
	row := r.db.QueryRowContext(ctx, selectStateSQL, nodeID)

	var s models.NodeState
	var updatedAt string
	if err := row.Scan(
		&s.NodeID,
		&s.BreakerEnabled,
		&s.SupplyWatts,
		&s.ExternalPower,
		&s.ChargeFraction,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.NodeState{}, nil
		}
		return models.NodeState{}, fmt.Errorf("load state of node %q: %w", nodeID, err)
	}

	ts, err := parseTime(updatedAt)
	if err != nil {
		return models.NodeState{}, fmt.Errorf("parse updated_at of node %q: %w", nodeID, err)
	}
	s.UpdatedAt = ts
	return s, nil
}

// Delete drops the snapshot of a removed node.
func (r *StateSQLite) Delete(ctx context.Context, nodeID string) error {
	if _, err := r.db.ExecContext(ctx, deleteStateSQL, nodeID); err != nil {
		return fmt.Errorf("delete state of node %q: %w", nodeID, err)
	}
	return nil
}
