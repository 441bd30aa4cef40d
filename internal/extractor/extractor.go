package extractor

import (
	"context"

	"lifeops/internal/models"
)

// Extractor turns free-form text about a user's situation into
// structured facts. Implementations must accept arbitrary input without
// panicking, return facts with non-empty entity and value, and return
// an empty set for empty input. The production implementation is an
// external natural-language capability; this package only fixes the
// seam.
type Extractor interface {
	Extract(ctx context.Context, rawText string) ([]models.Fact, error)
}
