package repositories

import (
	"context"

	"github.com/google/uuid"
	"promatch.backend/internal/domain/entities"
)

// UserRepository defines user data operations. Returned users are hydrated
// with role, location, languages and subjects.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]entities.UserSummary, error)
	// UpdateProfile writes the onboarding fields and replaces the language and subject sets
	UpdateProfile(ctx context.Context, user *entities.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TeacherQuery is the read side used by search and recommendations
type TeacherQuery interface {
	Search(ctx context.Context, teacherRoleID uuid.UUID, filter entities.TeacherFilter, sort entities.SortOrder, limit, offset int) ([]*entities.User, int64, error)
	// FindBySubjects returns random teachers sharing at least one subject, skipping exclude
	FindBySubjects(ctx context.Context, teacherRoleID uuid.UUID, subjectIDs, exclude []uuid.UUID, limit int) ([]*entities.User, error)
	FindByLocation(ctx context.Context, teacherRoleID, locationID uuid.UUID, exclude []uuid.UUID) ([]*entities.User, error)
}
