package service

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"

	"power_node/internal/logger"
	"power_node/internal/metrics"
	"power_node/internal/models"
	"power_node/internal/mqtt"
	"power_node/internal/node"
)

// testHost wires the node host the same way NewService does, over in-memory repos.
type testHost struct {
	svc    *NodeService
	mon    *MonitoringService
	reg    *Registry
	sim    *SimulatorService
	tools  *ToolEngine
	states *memStateRepo
	events *memEventRepo
	pub    *mqtt.FakePublisher
	m      *metrics.Registry
}

var testCatalog = map[string][]string{
	"screwdriver": {node.ScrewingQuality},
	"crowbar":     {"Prying"},
}

func newTestHost(t *testing.T, screwTime time.Duration, access map[int][]string) *testHost {
	t.Helper()

	log := logger.Nop()
	m := metrics.NewRegistry()
	states := newMemStateRepo()
	events := &memEventRepo{}
	pub := mqtt.NewFakePublisher()
	users := &mockAuthRepo{
		GetByIDFn: func(id int) (*models.User, error) {
			tags, ok := access[id]
			if !ok {
				return nil, nil
			}
			return &models.User{ID: id, Access: tags}, nil
		},
	}

	cfg := node.DefaultConfig()
	cfg.ScrewTime = screwTime

	sim := NewSimulatorService(SimParams{Capacity: 1000, ChargeRate: 100, Load: 50, Feed: 500}, m, log)
	tools := NewToolEngine(testCatalog, m, log)
	sinks := NewSinks(states, events, pub, m, log)
	reg := NewRegistry(cfg, sim, Collaborators{
		Visuals: sinks,
		UI:      sinks,
		Sounds:  sinks,
		Notices: sinks,
		Access:  NewAccessService(users, log),
		Tools:   tools,
	}, m, log)
	sim.Bind(reg)

	return &testHost{
		svc:    NewNodeService(reg, sim, tools, states, events, m, log),
		mon:    NewMonitoringService(states, reg),
		reg:    reg,
		sim:    sim,
		tools:  tools,
		states: states,
		events: events,
		pub:    pub,
		m:      m,
	}
}

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	if m.GetGauge() != nil {
		return m.GetGauge().GetValue()
	}
	return m.GetCounter().GetValue()
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
