package usecases

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"promatch.backend/internal/domain/entities"
	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/internal/domain/repositories"
	"promatch.backend/pkg/logger"
)

// ReferenceUsecase serves and seeds the lookup tables
type ReferenceUsecase struct {
	refRepo repositories.ReferenceRepository
}

func NewReferenceUsecase(refRepo repositories.ReferenceRepository) *ReferenceUsecase {
	return &ReferenceUsecase{refRepo: refRepo}
}

// List returns every row of one lookup table ordered by name
func (u *ReferenceUsecase) List(ctx context.Context, kind entities.ReferenceKind) ([]entities.ReferenceItem, error) {
	if !validKind(kind) {
		return nil, domainerrors.NotFound(fmt.Sprintf("unknown reference list %q", kind))
	}
	items, err := u.refRepo.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []entities.ReferenceItem{}
	}
	return items, nil
}

// Seed inserts the catalog names that are missing. Existing rows are untouched, so it is safe on every start.
func (u *ReferenceUsecase) Seed(ctx context.Context, catalog entities.ReferenceCatalog) (map[entities.ReferenceKind]int64, error) {
	inserted := make(map[entities.ReferenceKind]int64, len(catalog))
	for _, kind := range entities.ReferenceKinds {
		names, ok := catalog[kind]
		if !ok || len(names) == 0 {
			continue
		}
		n, err := u.refRepo.EnsureNames(ctx, kind, names)
		if err != nil {
			return inserted, fmt.Errorf("seed %s: %w", kind, err)
		}
		inserted[kind] = n
		logger.Info(ctx, "Reference data seeded", zap.String("table", string(kind)), zap.Int64("inserted", n), zap.Int("catalog", len(names)))
	}
	return inserted, nil
}

func validKind(kind entities.ReferenceKind) bool {
	for _, k := range entities.ReferenceKinds {
		if k == kind {
			return true
		}
	}
	return false
}
