package service

import (
	"context"
	"sync"

	"power_node/internal/models"
	"power_node/internal/repository"
)

// memStateRepo is an in-memory repository.StateRepo.
type memStateRepo struct {
	mu      sync.Mutex
	rows    map[string]models.NodeState
	saves   int
	saveErr error
	loadErr error
}

func newMemStateRepo() *memStateRepo {
	return &memStateRepo{rows: make(map[string]models.NodeState)}
}

func (r *memStateRepo) Save(ctx context.Context, s models.NodeState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.rows[s.NodeID] = s
	return nil
}

func (r *memStateRepo) Load(ctx context.Context, nodeID string) (models.NodeState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return models.NodeState{}, r.loadErr
	}
	return r.rows[nodeID], nil
}

func (r *memStateRepo) Delete(ctx context.Context, nodeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, nodeID)
	return nil
}

func (r *memStateRepo) get(nodeID string) (models.NodeState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[nodeID]
	return s, ok
}

// memEventRepo is an in-memory repository.EventRepo that records queries.
type memEventRepo struct {
	mu        sync.Mutex
	events    []models.NodeEvent
	appendErr error
	listErr   error
	queries   []repository.EventQuery
}

func (r *memEventRepo) Append(ctx context.Context, e models.NodeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	r.events = append(r.events, e)
	return nil
}

func (r *memEventRepo) List(ctx context.Context, q repository.EventQuery) ([]models.NodeEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]models.NodeEvent(nil), r.events...), nil
}

func (r *memEventRepo) types(nodeID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if e.NodeID == nodeID {
			out = append(out, e.Type)
		}
	}
	return out
}

func (r *memEventRepo) count(nodeID, typ string) int {
	n := 0
	for _, t := range r.types(nodeID) {
		if t == typ {
			n++
		}
	}
	return n
}
