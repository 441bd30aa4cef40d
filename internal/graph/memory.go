package graph

import (
	"context"
	"sort"
	"sync"

	"lifeops/internal/models"
)

// MemoryStore is an in-process FactStore. It backs tests and local runs
// without a Neo4j instance; the merge and read semantics match the
// Neo4j implementation.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]map[string]string // user id -> entity -> value
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]map[string]string)}
}

// Merge upserts the given facts for the user, last write wins per entity.
func (s *MemoryStore) Merge(ctx context.Context, userID string, facts []models.Fact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	userFacts, ok := s.users[userID]
	if !ok {
		userFacts = make(map[string]string)
		s.users[userID] = userFacts
	}
	for _, fact := range facts {
		userFacts[fact.Entity] = fact.Value
	}
	return nil
}

// AllFacts returns the user's facts sorted by entity.
func (s *MemoryStore) AllFacts(ctx context.Context, userID string) ([]models.Fact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userFacts := s.users[userID]
	facts := make([]models.Fact, 0, len(userFacts))
	for entity, value := range userFacts {
		facts = append(facts, models.Fact{Entity: entity, Value: value})
	}
	sort.Slice(facts, func(i, j int) bool { return facts[i].Entity < facts[j].Entity })
	return facts, nil
}
