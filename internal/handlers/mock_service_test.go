package handlers

import (
	"context"
	"net/http"
	"time"

	"power_node/internal/models"
	"power_node/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error
	grantResp     []string
	grantErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
	lastGrantUser      int
	lastGrantTags      []string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}
func (m *mockAuth) GrantAccess(ctx context.Context, userID int, tags []string) ([]string, error) {
	m.lastGrantUser = userID
	m.lastGrantTags = tags
	return m.grantResp, m.grantErr
}

type mockNodes struct {
	err      error
	accepted bool
	affected bool
	summary  []service.NodeSummary
	exam     service.Examination

	lastCreate service.CreateNodeParams
	lastID     string
	lastTool   string
	lastUser   int
	lastFlow   service.FlowParams
	calls      []string
}

func (m *mockNodes) record(name, id string) {
	m.calls = append(m.calls, name)
	m.lastID = id
}

func (m *mockNodes) CreateNode(ctx context.Context, p service.CreateNodeParams) error {
	m.record("create", p.ID)
	m.lastCreate = p
	return m.err
}
func (m *mockNodes) RemoveNode(ctx context.Context, id string) error {
	m.record("remove", id)
	return m.err
}
func (m *mockNodes) ListNodes(ctx context.Context) []service.NodeSummary {
	m.record("list", "")
	return m.summary
}
func (m *mockNodes) ToggleBreaker(ctx context.Context, id string, userID int) error {
	m.record("toggle", id)
	m.lastUser = userID
	return m.err
}
func (m *mockNodes) UseTool(ctx context.Context, id, tool string, userID int) (bool, error) {
	m.record("use_tool", id)
	m.lastTool = tool
	m.lastUser = userID
	return m.accepted, m.err
}
func (m *mockNodes) CancelTool(ctx context.Context, id string) (bool, error) {
	m.record("cancel_tool", id)
	return m.accepted, m.err
}
func (m *mockNodes) Compromise(ctx context.Context, id string) (bool, error) {
	m.record("compromise", id)
	return m.affected, m.err
}
func (m *mockNodes) Disturb(ctx context.Context, id string) (bool, error) {
	m.record("disturb", id)
	return m.affected, m.err
}
func (m *mockNodes) Examine(ctx context.Context, id string) (service.Examination, error) {
	m.record("examine", id)
	return m.exam, m.err
}
func (m *mockNodes) SetFlow(ctx context.Context, id string, p service.FlowParams) error {
	m.record("set_flow", id)
	m.lastFlow = p
	return m.err
}

type mockMonitoring struct {
	state    models.NodeState
	err      error
	lastNode string
}

func (m *mockMonitoring) GetState(ctx context.Context, nodeID string) (models.NodeState, error) {
	m.lastNode = nodeID
	return m.state, m.err
}

type mockEventLog struct {
	resp     []models.NodeEvent
	err      error
	lastNode string
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.NodeEvent, error) {
	m.lastNode = f.NodeID
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, nil)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
