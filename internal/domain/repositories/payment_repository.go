package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"promatch.backend/internal/domain/entities"
)

// PaymentRepository defines payment data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entities.Payment) error
	GetByExternalID(ctx context.Context, externalID string) (*entities.Payment, error)
	// ListLatestByUser returns payments sent or received by the user, newest first
	ListLatestByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.Payment, error)
	// DetachUser nulls sender and receiver references to the user
	DetachUser(ctx context.Context, userID uuid.UUID) error
}

// PaymentAccountRepository defines linked processor account operations
type PaymentAccountRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.PaymentAccount, error)
	Upsert(ctx context.Context, account *entities.PaymentAccount) error
	// ListExpiring returns connected accounts whose token expires before the given time
	ListExpiring(ctx context.Context, before time.Time) ([]*entities.PaymentAccount, error)
	MarkDisconnected(ctx context.Context, userID uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
