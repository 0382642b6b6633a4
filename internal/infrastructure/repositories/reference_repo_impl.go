package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"promatch.backend/internal/domain/entities"
	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/internal/infrastructure/models"
	"promatch.backend/pkg/utils"
)

// ReferenceRepository implements lookup table operations
type ReferenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository creates a new reference repository
func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func tableFor(kind entities.ReferenceKind) (string, error) {
	switch kind {
	case entities.ReferenceRole, entities.ReferenceLocation, entities.ReferenceLanguage, entities.ReferenceSubject:
		return string(kind), nil
	default:
		return "", fmt.Errorf("unknown reference kind %q: %w", kind, domainerrors.ErrInvalidInput)
	}
}

// List returns every row of the table ordered by name
func (r *ReferenceRepository) List(ctx context.Context, kind entities.ReferenceKind) ([]entities.ReferenceItem, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	var rows []models.Reference
	if err := GetDB(ctx, r.db).Table(table).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.ReferenceItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.ReferenceItem{ID: row.ID, Name: row.Name})
	}
	return items, nil
}

// GetByName gets a single row by its unique name
func (r *ReferenceRepository) GetByName(ctx context.Context, kind entities.ReferenceKind, name string) (*entities.ReferenceItem, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	var row models.Reference
	if err := GetDB(ctx, r.db).Table(table).Where("name = ?", name).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.ReferenceItem{ID: row.ID, Name: row.Name}, nil
}

// CountByIDs counts how many of the distinct ids exist
func (r *ReferenceRepository) CountByIDs(ctx context.Context, kind entities.ReferenceKind, ids []uuid.UUID) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	if err := GetDB(ctx, r.db).Table(table).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// EnsureNames inserts the names not yet present and returns how many rows were added
func (r *ReferenceRepository) EnsureNames(ctx context.Context, kind entities.ReferenceKind, names []string) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		return 0, nil
	}

	now := time.Now()
	rows := make([]models.Reference, 0, len(names))
	for _, name := range names {
		rows = append(rows, models.Reference{ID: utils.GenerateUUIDv7(), Name: name, CreatedAt: now})
	}

	result := GetDB(ctx, r.db).Table(table).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&rows)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
