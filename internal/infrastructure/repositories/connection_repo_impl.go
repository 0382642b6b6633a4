package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"promatch.backend/internal/domain/entities"
	"promatch.backend/internal/infrastructure/models"
)

// ConnectionRepository implements the connection graph over user_connections
type ConnectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new connection repository
func NewConnectionRepository(db *gorm.DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// Connect writes both directions of the edge in one transaction
func (r *ConnectionRepository) Connect(ctx context.Context, a, b uuid.UUID) (bool, error) {
	created := false
	err := GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		rows := []models.UserConnection{
			{UserID: a, ConnectionID: b, CreatedAt: now},
			{UserID: b, ConnectionID: a, CreatedAt: now},
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
		if result.Error != nil {
			return result.Error
		}
		created = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// Exists reports whether a is connected to b
func (r *ConnectionRepository) Exists(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&models.UserConnection{}).
		Where("user_id = ? AND connection_id = ?", a, b).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListIDs returns the ids the user is connected to
func (r *ConnectionRepository) ListIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := GetDB(ctx, r.db).Model(&models.UserConnection{}).
		Where("user_id = ?", userID).
		Pluck("connection_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListSummaries returns the user's connections, most recent first
func (r *ConnectionRepository) ListSummaries(ctx context.Context, userID uuid.UUID) ([]entities.UserSummary, error) {
	var rows []summaryRow
	if err := GetDB(ctx, r.db).Table("user_connections uc").
		Select("u.id AS id, u.full_name AS full_name, u.avatar AS avatar").
		Joins("JOIN users u ON u.id = uc.connection_id").
		Where("uc.user_id = ?", userID).
		Order("uc.created_at DESC, u.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]entities.UserSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, entities.UserSummary{ID: row.ID, FullName: row.FullName, Avatar: row.Avatar})
	}
	return out, nil
}

// RemoveAllForUser deletes every edge touching the user, in both directions
func (r *ConnectionRepository) RemoveAllForUser(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).
		Where("user_id = ? OR connection_id = ?", userID, userID).
		Delete(&models.UserConnection{}).Error
}
