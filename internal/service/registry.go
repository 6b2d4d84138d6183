package service

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"power_node/internal/logger"
	"power_node/internal/metrics"
	"power_node/internal/node"
)

var (
	ErrNodeExists   = errors.New("node already exists")
	ErrNodeNotFound = errors.New("node not found")
	ErrInvalidNode  = errors.New("node id is required")
)

// BatteryPool hands out the network battery each node reports on.
type BatteryPool interface {
	Attach(nodeID string) node.NetworkBattery
	Detach(nodeID string)
}

// Collaborators are shared by every node the registry hosts. Nil fields are
// left out of the node's dependencies.
type Collaborators struct {
	Visuals node.VisualSink
	UI      node.UISink
	Sounds  node.SoundSink
	Notices node.Notifier
	Access  node.AccessChecker
	Tools   *ToolEngine
}

type hostedNode struct {
	mu       sync.Mutex
	node     *node.Node
	instance string
}

// instanceTools stamps tool requests with the hosted node's instance, so a
// completion is only delivered to the node that started the operation.
type instanceTools struct {
	engine   *ToolEngine
	instance string
}

func (t instanceTools) Start(req node.ToolRequest) bool {
	req.Instance = t.instance
	return t.engine.Start(req)
}

// Registry owns the hosted nodes and serializes events per node.
type Registry struct {
	mu    sync.RWMutex
	nodes map[string]*hostedNode

	cfg       node.Config
	batteries BatteryPool
	collab    Collaborators
	clock     func() time.Time

	metrics *metrics.Registry
	log     *logger.Logger
}

func NewRegistry(cfg node.Config, batteries BatteryPool, collab Collaborators, m *metrics.Registry, log *logger.Logger) *Registry {
	r := &Registry{
		nodes:     make(map[string]*hostedNode),
		cfg:       cfg,
		batteries: batteries,
		collab:    collab,
		clock:     time.Now,
		metrics:   m,
		log:       log,
	}
	if collab.Tools != nil {
		collab.Tools.OnComplete(r.toolFinished)
	}
	return r
}

// Create spawns a node and delivers Created to it before any other event.
func (r *Registry) Create(id string, requirement node.AccessRequirement) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidNode
	}

	r.mu.Lock()
	if _, ok := r.nodes[id]; ok {
		r.mu.Unlock()
		return ErrNodeExists
	}
	instance := uuid.NewString()
	h := &hostedNode{node: node.New(id, r.cfg, requirement, r.depsFor(id, instance)), instance: instance}
	h.mu.Lock()
	r.nodes[id] = h
	r.mu.Unlock()

	handled := h.node.Handle(node.Created{})
	h.mu.Unlock()

	r.metrics.NodesRegistered.Inc()
	r.metrics.RecordEvent(node.EventName(node.Created{}), handled)
	r.log.Infow("node_created", "node", id, "access", []string(requirement))
	return nil
}

func (r *Registry) depsFor(id, instance string) node.Deps {
	d := node.Deps{
		Battery: r.batteries.Attach(id),
		Visuals: r.collab.Visuals,
		UI:      r.collab.UI,
		Sounds:  r.collab.Sounds,
		Notices: r.collab.Notices,
		Access:  r.collab.Access,
		Clock:   r.clock,
	}
	// A nil engine must leave d.Tools a nil interface: the node checks it.
	if r.collab.Tools != nil {
		d.Tools = instanceTools{engine: r.collab.Tools, instance: instance}
	}
	return d
}

// Remove drops a node, cancelling any tool operation still pending on it.
// The battery and tool slot are released before the id can be reused.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	if _, ok := r.nodes[id]; !ok {
		r.mu.Unlock()
		return ErrNodeNotFound
	}
	if r.collab.Tools != nil {
		r.collab.Tools.Cancel(id)
	}
	r.batteries.Detach(id)
	delete(r.nodes, id)
	r.mu.Unlock()

	r.metrics.NodesRegistered.Dec()
	r.log.Infow("node_removed", "node", id)
	return nil
}

// Dispatch delivers one event to a node and reports whether it was handled.
func (r *Registry) Dispatch(id string, ev node.Event) (bool, error) {
	h, ok := r.lookup(id)
	if !ok {
		return false, ErrNodeNotFound
	}
	return r.deliver(h, ev), nil
}

// DispatchWatch is Dispatch that also reports whether watch went from false
// to true across the delivery, observed under the node's lock.
func (r *Registry) DispatchWatch(id string, ev node.Event, watch func(*node.Node) bool) (handled, flipped bool, err error) {
	h, ok := r.lookup(id)
	if !ok {
		return false, false, ErrNodeNotFound
	}

	h.mu.Lock()
	before := watch(h.node)
	handled = h.node.Handle(ev)
	flipped = !before && watch(h.node)
	h.mu.Unlock()

	r.record(id, ev, handled)
	return handled, flipped, nil
}

func (r *Registry) deliver(h *hostedNode, ev node.Event) bool {
	h.mu.Lock()
	handled := h.node.Handle(ev)
	h.mu.Unlock()

	r.record(h.node.ID(), ev, handled)
	return handled
}

func (r *Registry) record(id string, ev node.Event, handled bool) {
	r.metrics.RecordEvent(node.EventName(ev), handled)
	r.log.Debugw("node_event", "node", id, "event", node.EventName(ev), "handled", handled)
}

// Inspect runs fn with exclusive access to a node.
func (r *Registry) Inspect(id string, fn func(n *node.Node)) error {
	h, ok := r.lookup(id)
	if !ok {
		return ErrNodeNotFound
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(h.node)
	return nil
}

// Has reports whether a node is hosted.
func (r *Registry) Has(id string) bool {
	_, ok := r.lookup(id)
	return ok
}

// List returns the hosted node ids in lexical order.
func (r *Registry) List() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.nodes))
	for id := range r.nodes {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

func (r *Registry) lookup(id string) (*hostedNode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.nodes[id]
	return h, ok
}

// toolFinished routes a completed tool operation back to the node instance
// that started it. Completions for a removed node, or for an earlier node
// under the same id, are dropped.
func (r *Registry) toolFinished(nodeID, instance string) {
	h, ok := r.lookup(nodeID)
	if !ok || h.instance != instance {
		r.log.Debugw("tool_finished_dropped", "node", nodeID, "instance", instance, "hosted", ok)
		return
	}
	r.deliver(h, node.ToolFinished{})
}
