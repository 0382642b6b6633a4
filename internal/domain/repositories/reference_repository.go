package repositories

import (
	"context"

	"github.com/google/uuid"
	"promatch.backend/internal/domain/entities"
)

// ReferenceRepository defines operations on the name-keyed lookup tables
type ReferenceRepository interface {
	List(ctx context.Context, kind entities.ReferenceKind) ([]entities.ReferenceItem, error)
	GetByName(ctx context.Context, kind entities.ReferenceKind, name string) (*entities.ReferenceItem, error)
	// CountByIDs returns how many of ids exist in the table
	CountByIDs(ctx context.Context, kind entities.ReferenceKind, ids []uuid.UUID) (int64, error)
	// EnsureNames inserts missing names and leaves existing rows untouched
	EnsureNames(ctx context.Context, kind entities.ReferenceKind, names []string) (int64, error)
}
