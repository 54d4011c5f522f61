package advisor

import (
	"context"

	"demarches-be/internal/entity"

	"github.com/google/uuid"
)

// Suggestion is the advisor's best substitution candidate for one
// requirement, with a human-readable justification shown to the user.
type Suggestion struct {
	DocumentId uuid.UUID
	Reason     string
}

// Advisor proposes a substitute document when no exact match exists for a
// requirement. A (nil, nil) return means "no suggestion". Implementations
// may be slow or fail; callers are expected to bound the wait through ctx
// and treat any error as no suggestion.
type Advisor interface {
	Suggest(ctx context.Context, requirement string, library []*entity.Document) (*Suggestion, error)
}
