package inference

import (
	"context"

	"lifeops/internal/models"
)

// Engine derives candidate tasks from the current fact set.
// Implementations must be deterministic for identical input and produce
// task IDs unique within one run; links are left unset for the
// orchestrator to populate during enrichment. The production
// implementation is an external reasoning capability; this package only
// fixes the seam.
type Engine interface {
	Infer(ctx context.Context, facts []models.Fact) ([]models.Task, error)
}
