package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"promatch.backend/internal/domain/entities"
	"promatch.backend/internal/infrastructure/models"
	"promatch.backend/pkg/utils"
)

// VirtualClassRepository implements recorded session operations
type VirtualClassRepository struct {
	db *gorm.DB
}

// NewVirtualClassRepository creates a new virtual class repository
func NewVirtualClassRepository(db *gorm.DB) *VirtualClassRepository {
	return &VirtualClassRepository{db: db}
}

// Create stores the class and its ordered participants atomically
func (r *VirtualClassRepository) Create(ctx context.Context, class *entities.VirtualClass) error {
	if class.ID == uuid.Nil {
		class.ID = utils.GenerateUUIDv7()
	}
	if class.CreatedAt.IsZero() {
		class.CreatedAt = time.Now()
	}

	return GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		m := &models.VirtualClass{ID: class.ID, ChannelID: class.ChannelID, CreatedAt: class.CreatedAt}
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		participants := make([]models.VirtualClassParticipant, 0, len(class.Participants))
		for i, userID := range class.Participants {
			participants = append(participants, models.VirtualClassParticipant{VirtualClassID: class.ID, UserID: userID, Position: i})
		}
		if len(participants) == 0 {
			return nil
		}
		return tx.Create(&participants).Error
	})
}

// ListLatestByParticipant gets the user's most recent sessions with their participants
func (r *VirtualClassRepository) ListLatestByParticipant(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.VirtualClass, error) {
	db := GetDB(ctx, r.db)

	var ms []models.VirtualClass
	if err := db.Model(&models.VirtualClass{}).
		Where("id IN (?)", db.Model(&models.VirtualClassParticipant{}).Select("virtual_class_id").Where("user_id = ?", userID)).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}
	if len(ms) == 0 {
		return []*entities.VirtualClass{}, nil
	}

	classIDs := make([]uuid.UUID, 0, len(ms))
	for _, m := range ms {
		classIDs = append(classIDs, m.ID)
	}
	var parts []models.VirtualClassParticipant
	if err := db.Where("virtual_class_id IN ?", classIDs).
		Order("virtual_class_id, position ASC").
		Find(&parts).Error; err != nil {
		return nil, err
	}
	byClass := make(map[uuid.UUID][]uuid.UUID, len(ms))
	for _, p := range parts {
		byClass[p.VirtualClassID] = append(byClass[p.VirtualClassID], p.UserID)
	}

	classes := make([]*entities.VirtualClass, 0, len(ms))
	for _, m := range ms {
		classes = append(classes, &entities.VirtualClass{
			ID:           m.ID,
			ChannelID:    m.ChannelID,
			Participants: byClass[m.ID],
			CreatedAt:    m.CreatedAt,
		})
	}
	return classes, nil
}

// RemoveParticipant removes the user from every session they took part in
func (r *VirtualClassRepository) RemoveParticipant(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("user_id = ?", userID).Delete(&models.VirtualClassParticipant{}).Error
}
