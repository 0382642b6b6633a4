package repositories

import (
	"context"

	"github.com/google/uuid"
	"promatch.backend/internal/domain/entities"
)

// VirtualClassRepository defines recorded session operations
type VirtualClassRepository interface {
	Create(ctx context.Context, class *entities.VirtualClass) error
	// ListLatestByParticipant returns sessions the user took part in, newest first
	ListLatestByParticipant(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.VirtualClass, error)
	RemoveParticipant(ctx context.Context, userID uuid.UUID) error
}
