package service

import (
	"context"
	"time"

	"power_node/internal/config"
	"power_node/internal/logger"
	"power_node/internal/metrics"
	"power_node/internal/models"
	"power_node/internal/mqtt"
	"power_node/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
	GrantAccess(ctx context.Context, userID int, tags []string) ([]string, error)
}

// Nodes exposes operator actions on hosted access nodes.
type Nodes interface {
	CreateNode(ctx context.Context, p CreateNodeParams) error
	RemoveNode(ctx context.Context, id string) error
	ListNodes(ctx context.Context) []NodeSummary
	ToggleBreaker(ctx context.Context, id string, userID int) error
	UseTool(ctx context.Context, id, tool string, userID int) (bool, error)
	CancelTool(ctx context.Context, id string) (bool, error)
	Compromise(ctx context.Context, id string) (bool, error)
	Disturb(ctx context.Context, id string) (bool, error)
	Examine(ctx context.Context, id string) (Examination, error)
	SetFlow(ctx context.Context, id string, p FlowParams) error
}

// Monitoring exposes the UI snapshot of a node.
type Monitoring interface {
	GetState(ctx context.Context, nodeID string) (models.NodeState, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.NodeEvent, error)
}

// Simulator runs the background loop that advances the network batteries.
// Stop via context cancellation in main() for graceful shutdown.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Nodes
	Monitoring
	EventLog
	Simulator
	Authorization
}

// NewService wires the repository layer, the appearance publisher and the
// node host into concrete services.
func NewService(repos *repository.Repository, cfg *config.Config, pub mqtt.Publisher, m *metrics.Registry, log *logger.Logger) *Service {
	sim := NewSimulatorService(SimParams{
		Capacity:   cfg.Sim.Capacity,
		ChargeRate: cfg.Sim.ChargeRate,
		Load:       cfg.Sim.Load,
		Feed:       cfg.Sim.Feed,
	}, m, log)
	tools := NewToolEngine(cfg.Tools, m, log)
	sinks := NewSinks(repos.StateRepo, repos.EventRepo, pub, m, log)

	reg := NewRegistry(cfg.Node.NodeTuning(), sim, Collaborators{
		Visuals: sinks,
		UI:      sinks,
		Sounds:  sinks,
		Notices: sinks,
		Access:  NewAccessService(repos.Auth, log),
		Tools:   tools,
	}, m, log)
	sim.Bind(reg)

	return &Service{
		Nodes:         NewNodeService(reg, sim, tools, repos.StateRepo, repos.EventRepo, m, log),
		Monitoring:    NewMonitoringService(repos.StateRepo, reg),
		EventLog:      NewEventLogService(repos.EventRepo),
		Simulator:     sim,
		Authorization: NewAuthService(repos.Auth, cfg.Auth.SigningKey, cfg.Auth.TokenTTL),
	}
}
