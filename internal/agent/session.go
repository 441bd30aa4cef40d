package agent

import (
	"context"
	"sync"

	"lifeops/internal/models"
)

// SessionStore holds the per-user ephemeral pipeline state: the current
// task list and the activity notes of past runs. Facts are durable in
// the graph store; session state is allowed to vanish on restart unless
// a persistent backend is configured.
type SessionStore interface {
	Tasks(ctx context.Context, userID string) ([]models.Task, error)
	ReplaceTasks(ctx context.Context, userID string, tasks []models.Task) error
	Activities(ctx context.Context, userID string) ([]string, error)
	AppendActivity(ctx context.Context, userID, note string) error
}

// MemorySessionStore is the default in-process SessionStore.
type MemorySessionStore struct {
	mu         sync.RWMutex
	tasks      map[string][]models.Task
	activities map[string][]string
}

// NewMemorySessionStore creates an empty MemorySessionStore.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		tasks:      make(map[string][]models.Task),
		activities: make(map[string][]string),
	}
}

// Tasks returns a copy of the user's current task list.
func (s *MemorySessionStore) Tasks(ctx context.Context, userID string) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]models.Task, len(s.tasks[userID]))
	copy(tasks, s.tasks[userID])
	return tasks, nil
}

// ReplaceTasks overwrites the user's task list wholesale.
func (s *MemorySessionStore) ReplaceTasks(ctx context.Context, userID string, tasks []models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]models.Task, len(tasks))
	copy(stored, tasks)
	s.tasks[userID] = stored
	return nil
}

// Activities returns a copy of the user's activity notes in append order.
func (s *MemorySessionStore) Activities(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := make([]string, len(s.activities[userID]))
	copy(notes, s.activities[userID])
	return notes, nil
}

// AppendActivity records one activity note for the user.
func (s *MemorySessionStore) AppendActivity(ctx context.Context, userID, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activities[userID] = append(s.activities[userID], note)
	return nil
}
