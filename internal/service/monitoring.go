package service

import (
	"context"
	"time"

	"power_node/internal/models"
	"power_node/internal/node"
	"power_node/internal/repository"
)

type MonitoringService struct {
	stateRepo repository.StateRepo
	registry  *Registry
}

func NewMonitoringService(stateRepo repository.StateRepo, reg *Registry) *MonitoringService {
	return &MonitoringService{stateRepo: stateRepo, registry: reg}
}

// GetState returns the latest persisted UI snapshot of a hosted node.
// If nothing is persisted yet, the snapshot is built from the live node.
func (s *MonitoringService) GetState(ctx context.Context, nodeID string) (models.NodeState, error) {
	if !s.registry.Has(nodeID) {
		return models.NodeState{}, ErrNodeNotFound
	}
	state, err := s.stateRepo.Load(ctx, nodeID)
	if err != nil {
		return models.NodeState{}, err
	}
	if state.NodeID == "" {
		return s.liveState(nodeID)
	}
	state.UpdatedAt = toUTC(state.UpdatedAt)
	return state, nil
}

func (s *MonitoringService) liveState(nodeID string) (models.NodeState, error) {
	var ui node.UIState
	if err := s.registry.Inspect(nodeID, func(n *node.Node) { ui = n.UIState() }); err != nil {
		return models.NodeState{}, err
	}
	return models.NodeState{
		NodeID:         nodeID,
		BreakerEnabled: ui.BreakerEnabled,
		SupplyWatts:    ui.SupplyWatts,
		ExternalPower:  ui.ExternalPower.String(),
		ChargeFraction: ui.ChargeFraction,
		UpdatedAt:      time.Now().UTC(),
	}, nil
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
