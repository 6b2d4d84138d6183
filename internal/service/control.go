package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"power_node/internal/logger"
	"power_node/internal/metrics"
	"power_node/internal/models"
	"power_node/internal/node"
	"power_node/internal/repository"
)

var (
	ErrAccessDenied = errors.New("insufficient access")
	ErrInvalidFlow  = errors.New("load or feed is required and neither may be negative")
)

// NodeService exposes operator actions on hosted nodes.
type NodeService struct {
	registry  *Registry
	sim       *SimulatorService
	tools     *ToolEngine
	stateRepo repository.StateRepo
	eventRepo repository.EventRepo

	mu      sync.Mutex
	access  map[string][]string
	metrics *metrics.Registry
	log     *logger.Logger
}

func NewNodeService(reg *Registry, sim *SimulatorService, tools *ToolEngine, stateRepo repository.StateRepo, eventRepo repository.EventRepo, m *metrics.Registry, log *logger.Logger) *NodeService {
	return &NodeService{
		registry:  reg,
		sim:       sim,
		tools:     tools,
		stateRepo: stateRepo,
		eventRepo: eventRepo,
		access:    make(map[string][]string),
		metrics:   m,
		log:       log,
	}
}

// CreateNode spawns a node and logs CREATED.
func (s *NodeService) CreateNode(ctx context.Context, p CreateNodeParams) error {
	id := strings.TrimSpace(p.ID)
	var req node.AccessRequirement
	if tags := normalizeTags(p.Access); len(tags) > 0 {
		req = node.AccessRequirement(tags)
	}
	if err := s.registry.Create(id, req); err != nil {
		return err
	}
	s.mu.Lock()
	s.access[id] = req
	s.mu.Unlock()

	return s.eventRepo.Append(ctx, models.NodeEvent{
		NodeID:      id,
		OccurredAt:  time.Now().UTC(),
		Type:        models.EventCreated,
		Description: "Node created",
		Metadata:    map[string]any{"access": []string(req)},
	})
}

// RemoveNode drops a node and its persisted snapshot.
func (s *NodeService) RemoveNode(ctx context.Context, id string) error {
	if err := s.registry.Remove(id); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.access, id)
	s.mu.Unlock()

	if err := s.stateRepo.Delete(ctx, id); err != nil {
		return err
	}
	return s.eventRepo.Append(ctx, models.NodeEvent{
		NodeID:      id,
		OccurredAt:  time.Now().UTC(),
		Type:        models.EventRemoved,
		Description: "Node removed",
	})
}

// ListNodes summarizes every hosted node.
func (s *NodeService) ListNodes(ctx context.Context) []NodeSummary {
	ids := s.registry.List()
	out := make([]NodeSummary, 0, len(ids))
	for _, id := range ids {
		if sum, err := s.summary(id); err == nil {
			out = append(out, sum)
		}
	}
	return out
}

func (s *NodeService) summary(id string) (NodeSummary, error) {
	s.mu.Lock()
	sum := NodeSummary{ID: id, Access: s.access[id]}
	s.mu.Unlock()
	err := s.registry.Inspect(id, func(n *node.Node) {
		sum.BreakerOn = n.BreakerEnabled()
		sum.Panel = n.PanelState().String()
		sum.Compromised = n.Compromised()
		sum.ChargeState = n.ChargeState().String()
		sum.ExternalPower = n.ExternalPowerState().String()
	})
	if err != nil {
		return NodeSummary{}, err
	}
	if s.tools != nil {
		sum.ToolPending = s.tools.Pending(id)
	}
	return sum, nil
}

// ToggleBreaker is a manual breaker toggle on behalf of a user.
func (s *NodeService) ToggleBreaker(ctx context.Context, id string, userID int) error {
	handled, err := s.registry.Dispatch(id, node.ToggleRequested{Requester: requester(userID)})
	if err != nil {
		return err
	}
	if !handled {
		return ErrAccessDenied
	}
	return nil
}

// UseTool applies a tool to the node's panel. It reports whether the tool
// engine accepted the operation.
func (s *NodeService) UseTool(ctx context.Context, id, tool string, userID int) (bool, error) {
	return s.registry.Dispatch(id, node.ToolUsed{Tool: tool, User: requester(userID)})
}

// CancelTool abandons a pending panel operation on the node.
func (s *NodeService) CancelTool(ctx context.Context, id string) (bool, error) {
	if !s.registry.Has(id) {
		return false, ErrNodeNotFound
	}
	if s.tools == nil {
		return false, nil
	}
	return s.tools.Cancel(id), nil
}

// Compromise fires the permanent compromise override. The event is always
// handled; COMPROMISED is logged only when the flag is first set.
func (s *NodeService) Compromise(ctx context.Context, id string) (bool, error) {
	handled, flipped, err := s.registry.DispatchWatch(id, node.CompromiseEvent{}, (*node.Node).Compromised)
	if err != nil {
		return false, err
	}
	s.override(ctx, id, "compromise", flipped, models.EventCompromised, "Node compromised")
	return handled, nil
}

// Disturb fires the disturbance pulse. It reports whether the breaker moved.
func (s *NodeService) Disturb(ctx context.Context, id string) (bool, error) {
	affected, err := s.registry.Dispatch(id, node.DisturbanceEvent{})
	if err != nil {
		return false, err
	}
	s.override(ctx, id, "disturbance", affected, models.EventDisturbed, "Disturbance forced the breaker off")
	return affected, nil
}

func (s *NodeService) override(ctx context.Context, id, kind string, affected bool, typ, msg string) {
	s.metrics.RecordOverride(kind, affected)
	if !affected {
		return
	}
	if err := s.eventRepo.Append(ctx, models.NodeEvent{
		NodeID:      id,
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Description: msg,
	}); err != nil {
		s.log.Errorw("override_log_failed", "node", id, "kind", kind, "err", err)
	}
}

// Examine renders the examine text of the node.
func (s *NodeService) Examine(ctx context.Context, id string) (Examination, error) {
	var key string
	if _, err := s.registry.Dispatch(id, node.Examined{Reply: func(k string) { key = k }}); err != nil {
		return Examination{}, err
	}
	text, ok := examineText[key]
	if !ok {
		text = key
	}
	return Examination{Key: key, Text: text}, nil
}

// SetFlow changes the simulated consumer load and upstream feed of a node.
func (s *NodeService) SetFlow(ctx context.Context, id string, p FlowParams) error {
	if p.Load == nil && p.Feed == nil {
		return ErrInvalidFlow
	}
	if (p.Load != nil && *p.Load < 0) || (p.Feed != nil && *p.Feed < 0) {
		return ErrInvalidFlow
	}
	b, ok := s.sim.Battery(id)
	if !ok || !s.registry.Has(id) {
		return ErrNodeNotFound
	}

	cur := b.Params()
	load, feed := cur.Load, cur.Feed
	if p.Load != nil {
		load = *p.Load
	}
	if p.Feed != nil {
		feed = *p.Feed
	}
	b.SetFlow(load, feed)
	s.log.Infow("node_flow_set", "node", id, "load", load, "feed", feed)
	return nil
}

func requester(userID int) string {
	return strconv.Itoa(userID)
}
