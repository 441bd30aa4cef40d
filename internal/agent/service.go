package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"lifeops/internal/browsing"
	"lifeops/internal/extractor"
	"lifeops/internal/graph"
	"lifeops/internal/inference"
	"lifeops/internal/ledger"
	"lifeops/internal/models"
	"lifeops/pkg/logger"
)

// LinkResolver is the enrichment seam: it never fails, only degrades.
type LinkResolver interface {
	ResolveLinks(ctx context.Context, taskTitle, contextSummary string) browsing.Resolution
}

// State is the aggregated read-back view for one user: durable facts,
// the current task list, run activity notes, and the invocation ledger.
type State struct {
	Facts      []models.Fact
	Tasks      []models.Task
	Activities []string
	Ledger     []models.LedgerEntry
}

// Service orchestrates one pipeline run: extraction, graph merge, task
// inference, and link enrichment. Runs are serialized per user; the
// previous task list is replaced only after a run completes, so an
// aborted run never leaves half-applied state behind.
type Service struct {
	store     graph.FactStore
	extractor extractor.Extractor
	engine    inference.Engine
	resolver  LinkResolver
	ledger    *ledger.Ledger
	sessions  SessionStore
	log       *logger.Logger

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// NewService wires the orchestrator from its collaborators.
func NewService(store graph.FactStore, ext extractor.Extractor, engine inference.Engine, resolver LinkResolver, led *ledger.Ledger, sessions SessionStore, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		extractor: ext,
		engine:    engine,
		resolver:  resolver,
		ledger:    led,
		sessions:  sessions,
		log:       log,
		userLocks: make(map[string]*sync.Mutex),
	}
}

// userLock returns the serialization mutex for a user, creating it on
// first use. At most one inference run is in flight per user.
func (s *Service) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

// RunInference executes the full pipeline for one input text. Any
// extraction, merge, or inference failure aborts the run with the
// persisted facts and the previous task list untouched. Enrichment
// cannot fail: the resolver degrades per task.
func (s *Service) RunInference(ctx context.Context, userID, rawText string) (models.PipelineResult, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	runID := uuid.New().String()
	log := s.log
	if log != nil {
		log = log.WithField("run_id", runID)
	}

	newFacts, err := s.extractor.Extract(ctx, rawText)
	if err != nil {
		return models.PipelineResult{}, fmt.Errorf("fact extraction failed: %w", err)
	}

	if err := s.store.Merge(ctx, userID, newFacts); err != nil {
		if log != nil {
			log.WithError(models.ErrorInfo{Message: err.Error()}).Error("aborting run: fact merge failed")
		}
		return models.PipelineResult{}, err
	}

	// Inference sees the full accumulated fact graph, not just the
	// facts extracted from this input, so task quality improves as the
	// user interacts repeatedly.
	merged, err := s.store.AllFacts(ctx, userID)
	if err != nil {
		return models.PipelineResult{}, err
	}

	tasks, err := s.engine.Infer(ctx, merged)
	if err != nil {
		return models.PipelineResult{}, fmt.Errorf("task inference failed: %w", err)
	}

	s.enrich(ctx, tasks, merged)

	if err := s.sessions.ReplaceTasks(ctx, userID, tasks); err != nil {
		return models.PipelineResult{}, fmt.Errorf("failed to store task list: %w", err)
	}

	note := fmt.Sprintf("run %s: extracted %d facts, inferred %d tasks", runID, len(newFacts), len(tasks))
	if err := s.sessions.AppendActivity(ctx, userID, note); err != nil && log != nil {
		log.WithError(models.ErrorInfo{Message: err.Error()}).Warn("failed to append activity note")
	}

	if log != nil {
		log.WithPayload(map[string]interface{}{
			"facts_extracted": len(newFacts),
			"tasks_inferred":  len(tasks),
		}).Info("inference run complete")
	}

	return models.PipelineResult{Facts: newFacts, TaskCount: len(tasks)}, nil
}

// enrich resolves links for every task concurrently. The calls are
// independent: each records its own ledger entry and applies its own
// fallback, so no task is left without links.
func (s *Service) enrich(ctx context.Context, tasks []models.Task, facts []models.Fact) {
	summary := summarizeFacts(facts)

	var wg sync.WaitGroup
	for i := range tasks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res := s.resolver.ResolveLinks(ctx, tasks[i].Title, summary)
			tasks[i].Links = res.Links
		}(i)
	}
	wg.Wait()
}

// GetState returns the aggregated view for the user. Read-only; taken
// under the user lock so a concurrent run is never observed half-done.
func (s *Service) GetState(ctx context.Context, userID string) (State, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	facts, err := s.store.AllFacts(ctx, userID)
	if err != nil {
		return State{}, err
	}

	tasks, err := s.sessions.Tasks(ctx, userID)
	if err != nil {
		return State{}, fmt.Errorf("failed to load task list: %w", err)
	}

	activities, err := s.sessions.Activities(ctx, userID)
	if err != nil {
		return State{}, fmt.Errorf("failed to load activity notes: %w", err)
	}

	return State{
		Facts:      facts,
		Tasks:      tasks,
		Activities: activities,
		Ledger:     s.ledger.Entries(),
	}, nil
}

// summarizeFacts renders the fact set as a short context string for the
// link resolver's instruction.
func summarizeFacts(facts []models.Fact) string {
	if len(facts) == 0 {
		return "no known context"
	}
	parts := make([]string, 0, len(facts))
	for _, f := range facts {
		parts = append(parts, f.Entity+": "+f.Value)
	}
	return strings.Join(parts, "; ")
}
