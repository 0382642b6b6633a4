package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"promatch.backend/internal/domain/entities"
	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/internal/infrastructure/models"
	"promatch.backend/pkg/utils"
)

// PaymentAccountRepository implements linked processor account operations
type PaymentAccountRepository struct {
	db *gorm.DB
}

// NewPaymentAccountRepository creates a new payment account repository
func NewPaymentAccountRepository(db *gorm.DB) *PaymentAccountRepository {
	return &PaymentAccountRepository{db: db}
}

// GetByUserID gets the account linked to a user
func (r *PaymentAccountRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.PaymentAccount, error) {
	var m models.PaymentAccount
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Upsert creates the user's account or overwrites its credentials
func (r *PaymentAccountRepository) Upsert(ctx context.Context, account *entities.PaymentAccount) error {
	now := time.Now()
	if account.ID == uuid.Nil {
		account.ID = utils.GenerateUUIDv7()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	m := &models.PaymentAccount{
		ID:           account.ID,
		UserID:       account.UserID,
		AccessToken:  account.AccessToken,
		RefreshToken: account.RefreshToken,
		ExpiresAt:    account.ExpiresAt,
		SellerID:     account.SellerID,
		IsConnected:  account.IsConnected,
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "expires_at", "seller_id", "is_connected", "updated_at"}),
	}).Create(m).Error
}

// ListExpiring returns connected accounts whose token expires before the given instant
func (r *PaymentAccountRepository) ListExpiring(ctx context.Context, before time.Time) ([]*entities.PaymentAccount, error) {
	var ms []models.PaymentAccount
	if err := GetDB(ctx, r.db).
		Where("is_connected = ? AND expires_at IS NOT NULL AND expires_at < ?", true, before).
		Order("expires_at ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	accounts := make([]*entities.PaymentAccount, 0, len(ms))
	for i := range ms {
		accounts = append(accounts, r.toEntity(&ms[i]))
	}
	return accounts, nil
}

// MarkDisconnected flags the account as no longer usable
func (r *PaymentAccountRepository) MarkDisconnected(ctx context.Context, userID uuid.UUID) error {
	result := GetDB(ctx, r.db).Model(&models.PaymentAccount{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"is_connected": false, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// DeleteByUserID removes the user's account if any
func (r *PaymentAccountRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("user_id = ?", userID).Delete(&models.PaymentAccount{}).Error
}

func (r *PaymentAccountRepository) toEntity(m *models.PaymentAccount) *entities.PaymentAccount {
	return &entities.PaymentAccount{
		ID:           m.ID,
		UserID:       m.UserID,
		AccessToken:  m.AccessToken,
		RefreshToken: m.RefreshToken,
		ExpiresAt:    m.ExpiresAt,
		SellerID:     m.SellerID,
		IsConnected:  m.IsConnected,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
