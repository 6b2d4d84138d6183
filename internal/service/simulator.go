package service

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"power_node/internal/logger"
	"power_node/internal/metrics"
	"power_node/internal/node"
)

// SimParams are the electrical parameters of one simulated network battery.
type SimParams struct {
	Capacity   float64 // stored energy ceiling, J
	ChargeRate float64 // max charging draw, W
	Load       float64 // consumer demand, W
	Feed       float64 // upstream power available, W
}

// SimBattery is an in-process network battery. The node only reads it and
// sets the discharge permission; the simulator advances it.
type SimBattery struct {
	mu           sync.Mutex
	params       SimParams
	charge       float64
	canDischarge bool
	reading      node.Reading
}

// NewSimBattery starts full with no flow.
func NewSimBattery(p SimParams) *SimBattery {
	b := &SimBattery{params: p, charge: p.Capacity}
	b.reading = node.Reading{CurrentCharge: b.charge, MaxCharge: p.Capacity}
	return b
}

func (b *SimBattery) Reading() node.Reading {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reading
}

func (b *SimBattery) SetCanDischarge(v bool) {
	b.mu.Lock()
	b.canDischarge = v
	b.mu.Unlock()
}

// CanDischarge reports the current discharge permission.
func (b *SimBattery) CanDischarge() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.canDischarge
}

// Params returns the current electrical parameters.
func (b *SimBattery) Params() SimParams {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.params
}

// SetFlow changes consumer load and upstream feed.
func (b *SimBattery) SetFlow(load, feed float64) {
	b.mu.Lock()
	b.params.Load = load
	b.params.Feed = feed
	b.mu.Unlock()
}

// Step advances the battery by dt seconds and reports whether the reading changed.
func (b *SimBattery) Step(dt float64) bool {
	if dt <= 0 {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	want := 0.0
	if b.canDischarge {
		want = b.params.Load
	}
	room := 0.0
	if b.charge < b.params.Capacity {
		room = b.params.ChargeRate
	}

	receiving := math.Min(b.params.Feed, want+room)
	supply := math.Min(want, receiving+b.charge/dt)
	b.charge = clamp(b.charge+(receiving-supply)*dt, 0, b.params.Capacity)

	next := node.Reading{
		CurrentCharge:    b.charge,
		MaxCharge:        b.params.Capacity,
		CurrentSupply:    supply,
		CurrentReceiving: receiving,
	}
	changed := next != b.reading
	b.reading = next
	return changed
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// Dispatcher delivers events to hosted nodes.
type Dispatcher interface {
	Dispatch(id string, ev node.Event) (bool, error)
}

// SimulatorService owns the simulated batteries and advances them on a ticker.
type SimulatorService struct {
	mu        sync.Mutex
	batteries map[string]*SimBattery
	defaults  SimParams
	nodes     Dispatcher

	metrics *metrics.Registry
	log     *logger.Logger
}

// NewSimulatorService returns a simulator handing out batteries with defaults.
func NewSimulatorService(defaults SimParams, m *metrics.Registry, log *logger.Logger) *SimulatorService {
	return &SimulatorService{
		batteries: make(map[string]*SimBattery),
		defaults:  defaults,
		metrics:   m,
		log:       log,
	}
}

// Bind sets where ReadingChanged events go.
func (s *SimulatorService) Bind(d Dispatcher) {
	s.mu.Lock()
	s.nodes = d
	s.mu.Unlock()
}

// Attach implements BatteryPool.
func (s *SimulatorService) Attach(nodeID string) node.NetworkBattery {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := NewSimBattery(s.defaults)
	s.batteries[nodeID] = b
	return b
}

// Detach implements BatteryPool.
func (s *SimulatorService) Detach(nodeID string) {
	s.mu.Lock()
	delete(s.batteries, nodeID)
	s.mu.Unlock()
}

// Battery returns the battery attached to a node.
func (s *SimulatorService) Battery(nodeID string) (*SimBattery, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batteries[nodeID]
	return b, ok
}

// Run ticks at the given interval until ctx is canceled.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Step(tick)
		}
	}
}

// Step advances every battery by dt and notifies nodes whose reading moved.
func (s *SimulatorService) Step(dt time.Duration) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.batteries))
	for id := range s.batteries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	batteries := make([]*SimBattery, len(ids))
	for i, id := range ids {
		batteries[i] = s.batteries[id]
	}
	d := s.nodes
	s.mu.Unlock()

	s.metrics.SimulatorTicks.Inc()

	for i, b := range batteries {
		if !b.Step(dt.Seconds()) || d == nil {
			continue
		}
		if _, err := d.Dispatch(ids[i], node.ReadingChanged{}); err != nil {
			s.log.Debugw("sim_dispatch_skipped", "node", ids[i], "err", err)
		}
	}
}
