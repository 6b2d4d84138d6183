package repository

import (
	"context"
	"database/sql"
	"time"

	"power_node/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	SetAccess(ctx context.Context, id int, access []string) error
}

type StateRepo interface {
	Save(ctx context.Context, s models.NodeState) error
	Load(ctx context.Context, nodeID string) (models.NodeState, error)
	Delete(ctx context.Context, nodeID string) error
}

// EventQuery filters the event log. Zero values mean "no constraint".
type EventQuery struct {
	NodeID string
	From   time.Time
	To     time.Time
	Type   string
}

type EventRepo interface {
	Append(ctx context.Context, e models.NodeEvent) error
	List(ctx context.Context, q EventQuery) ([]models.NodeEvent, error)
}

type Repository struct {
	StateRepo StateRepo
	EventRepo EventRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StateRepo: NewStateSQLite(db),
		EventRepo: NewEventSQLite(db),
		Auth:      NewUserRepository(db),
	}
}

// timeLayout is a fixed-width UTC layout so stored timestamps sort as text.
const timeLayout = "2006-01-02 15:04:05.000000"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
