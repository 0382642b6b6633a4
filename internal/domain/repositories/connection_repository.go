package repositories

import (
	"context"

	"github.com/google/uuid"
	"promatch.backend/internal/domain/entities"
)

// ConnectionRepository stores the symmetric user graph
type ConnectionRepository interface {
	// Connect adds both directions of the edge. Returns false if it already existed.
	Connect(ctx context.Context, a, b uuid.UUID) (bool, error)
	Exists(ctx context.Context, a, b uuid.UUID) (bool, error)
	ListIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListSummaries(ctx context.Context, userID uuid.UUID) ([]entities.UserSummary, error)
	RemoveAllForUser(ctx context.Context, userID uuid.UUID) error
}
