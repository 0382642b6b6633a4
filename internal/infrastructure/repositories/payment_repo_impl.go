package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"promatch.backend/internal/domain/entities"
	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/internal/infrastructure/models"
	"promatch.backend/pkg/utils"
)

// PaymentRepository implements payment data operations
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create creates a new payment. A duplicate external payment id yields ErrAlreadyExists.
func (r *PaymentRepository) Create(ctx context.Context, payment *entities.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = utils.GenerateUUIDv7()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}

	m := &models.Payment{
		ID:                payment.ID,
		SenderID:          payment.SenderID,
		ReceiverID:        payment.ReceiverID,
		Amount:            payment.Amount,
		Status:            string(payment.Status),
		ExternalPaymentID: payment.ExternalPaymentID,
		CreatedAt:         payment.CreatedAt,
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByExternalID gets a payment by the processor's payment id
func (r *PaymentRepository) GetByExternalID(ctx context.Context, externalID string) (*entities.Payment, error) {
	var m models.Payment
	if err := GetDB(ctx, r.db).Where("external_payment_id = ?", externalID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ListLatestByUser gets the most recent payments the user sent or received
func (r *PaymentRepository) ListLatestByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.Payment, error) {
	var ms []models.Payment
	if err := GetDB(ctx, r.db).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	payments := make([]*entities.Payment, 0, len(ms))
	for i := range ms {
		payments = append(payments, r.toEntity(&ms[i]))
	}
	return payments, nil
}

// DetachUser clears sender and receiver references to the user
func (r *PaymentRepository) DetachUser(ctx context.Context, userID uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Model(&models.Payment{}).Where("sender_id = ?", userID).Update("sender_id", gorm.Expr("NULL")).Error; err != nil {
		return err
	}
	return db.Model(&models.Payment{}).Where("receiver_id = ?", userID).Update("receiver_id", gorm.Expr("NULL")).Error
}

func (r *PaymentRepository) toEntity(m *models.Payment) *entities.Payment {
	return &entities.Payment{
		ID:                m.ID,
		SenderID:          m.SenderID,
		ReceiverID:        m.ReceiverID,
		Amount:            m.Amount,
		Status:            entities.PaymentStatus(m.Status),
		ExternalPaymentID: m.ExternalPaymentID,
		CreatedAt:         m.CreatedAt,
	}
}
