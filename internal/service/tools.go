package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"power_node/internal/logger"
	"power_node/internal/metrics"
	"power_node/internal/node"
)

// Tool operation outcomes, used as metric labels.
const (
	toolStarted        = "started"
	toolUnknown        = "unknown_tool"
	toolMissingQuality = "missing_quality"
	toolBusy           = "busy"
	toolCompleted      = "completed"
	toolCancelled      = "cancelled"
)

type toolOp struct {
	id       string
	nodeID   string
	instance string
	tool   string
	user   string
	timer  *time.Timer
}

// ToolEngine runs timed tool operations, at most one per target node.
type ToolEngine struct {
	mu       sync.Mutex
	catalog  map[string][]string
	pending  map[string]*toolOp
	complete func(nodeID, instance string)

	metrics *metrics.Registry
	log     *logger.Logger
}

// NewToolEngine builds an engine over a catalog of tool id -> qualities.
func NewToolEngine(catalog map[string][]string, m *metrics.Registry, log *logger.Logger) *ToolEngine {
	c := make(map[string][]string, len(catalog))
	for tool, qualities := range catalog {
		c[tool] = append([]string(nil), qualities...)
	}
	return &ToolEngine{
		catalog: c,
		pending: make(map[string]*toolOp),
		metrics: m,
		log:     log,
	}
}

// OnComplete sets the callback run when an operation finishes. It receives
// the target and the instance token the operation was started with.
func (e *ToolEngine) OnComplete(fn func(nodeID, instance string)) {
	e.mu.Lock()
	e.complete = fn
	e.mu.Unlock()
}

// Start accepts or rejects a tool operation. Accepted operations complete
// after req.Duration unless cancelled first.
func (e *ToolEngine) Start(req node.ToolRequest) bool {
	qualities, ok := e.catalog[req.Tool]
	if !ok {
		e.reject(req, toolUnknown)
		return false
	}
	if !hasQuality(qualities, req.Quality) {
		e.reject(req, toolMissingQuality)
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, busy := e.pending[req.Target]; busy {
		e.reject(req, toolBusy)
		return false
	}

	op := &toolOp{id: uuid.NewString(), nodeID: req.Target, instance: req.Instance, tool: req.Tool, user: req.User}
	// finish takes e.mu, so it cannot observe the map before op is stored.
	op.timer = time.AfterFunc(req.Duration, func() { e.finish(op) })
	e.pending[req.Target] = op

	e.metrics.ToolOperations.WithLabelValues(toolStarted).Inc()
	e.log.Infow("tool_started", "op", op.id, "node", req.Target, "tool", req.Tool, "user", req.User, "duration", req.Duration)
	return true
}

// Cancel abandons the pending operation on a node. No completion is delivered.
func (e *ToolEngine) Cancel(nodeID string) bool {
	e.mu.Lock()
	op, ok := e.pending[nodeID]
	if ok {
		delete(e.pending, nodeID)
		op.timer.Stop()
	}
	e.mu.Unlock()

	if ok {
		e.metrics.ToolOperations.WithLabelValues(toolCancelled).Inc()
		e.log.Infow("tool_cancelled", "op", op.id, "node", nodeID)
	}
	return ok
}

// Pending reports whether a node has an operation in flight.
func (e *ToolEngine) Pending(nodeID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.pending[nodeID]
	return ok
}

func (e *ToolEngine) finish(op *toolOp) {
	e.mu.Lock()
	cur, ok := e.pending[op.nodeID]
	if !ok || cur.id != op.id {
		e.mu.Unlock()
		return
	}
	delete(e.pending, op.nodeID)
	cb := e.complete
	e.mu.Unlock()

	e.metrics.ToolOperations.WithLabelValues(toolCompleted).Inc()
	e.log.Infow("tool_completed", "op", op.id, "node", op.nodeID, "tool", op.tool, "user", op.user)
	if cb != nil {
		cb(op.nodeID, op.instance)
	}
}

func (e *ToolEngine) reject(req node.ToolRequest, outcome string) {
	e.metrics.ToolOperations.WithLabelValues(outcome).Inc()
	e.log.Debugw("tool_rejected", "node", req.Target, "tool", req.Tool, "user", req.User, "reason", outcome)
}

func hasQuality(qualities []string, want string) bool {
	for _, q := range qualities {
		if q == want {
			return true
		}
	}
	return false
}
