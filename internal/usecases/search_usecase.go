package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"promatch.backend/internal/domain/entities"
	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/internal/domain/repositories"
	"promatch.backend/pkg/utils"
)

// SearchUsecase implements teacher search and recommendations
type SearchUsecase struct {
	userRepo    repositories.UserRepository
	teachers    repositories.TeacherQuery
	refRepo     repositories.ReferenceRepository
	connections repositories.ConnectionRepository
}

func NewSearchUsecase(
	userRepo repositories.UserRepository,
	teachers repositories.TeacherQuery,
	refRepo repositories.ReferenceRepository,
	connections repositories.ConnectionRepository,
) *SearchUsecase {
	return &SearchUsecase{
		userRepo:    userRepo,
		teachers:    teachers,
		refRepo:     refRepo,
		connections: connections,
	}
}

// teacherRoleID resolves the Profesor role. A missing role is a configuration error, not an empty result.
func (u *SearchUsecase) teacherRoleID(ctx context.Context) (uuid.UUID, error) {
	role, err := u.refRepo.GetByName(ctx, entities.ReferenceRole, string(entities.RoleTeacher))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return uuid.Nil, domainerrors.ErrRoleNotConfigured
		}
		return uuid.Nil, err
	}
	return role.ID, nil
}

// SearchTeachers returns one page of onboarded teachers matching the filter
func (u *SearchUsecase) SearchTeachers(ctx context.Context, filter entities.TeacherFilter, sort entities.SortOrder, page, limit int) (*entities.SearchPage, error) {
	if filter.PriceMin != nil && filter.PriceMax != nil && *filter.PriceMin > *filter.PriceMax {
		return nil, domainerrors.Validation("priceMin must not exceed priceMax")
	}

	roleID, err := u.teacherRoleID(ctx)
	if err != nil {
		return nil, err
	}

	params := utils.GetPaginationParams(page, limit)
	teachers, total, err := u.teachers.Search(ctx, roleID, filter, sort, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, err
	}
	if teachers == nil {
		teachers = []*entities.User{}
	}

	meta := utils.CalculateMeta(total, params, len(teachers))
	return &entities.SearchPage{
		Data:    teachers,
		Page:    meta.Page,
		Limit:   meta.Limit,
		Total:   meta.Total,
		HasMore: meta.HasMore,
	}, nil
}

// RecommendForStudent returns random teachers sharing a subject with the student,
// skipping teachers the student is already connected to
func (u *SearchUsecase) RecommendForStudent(ctx context.Context, studentID uuid.UUID) ([]*entities.User, error) {
	student, err := u.userRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	roleID, err := u.teacherRoleID(ctx)
	if err != nil {
		return nil, err
	}

	subjects := student.SubjectIDs()
	if len(subjects) == 0 {
		return []*entities.User{}, nil
	}

	connected, err := u.connections.ListIDs(ctx, studentID)
	if err != nil {
		return nil, err
	}
	exclude := append([]uuid.UUID{studentID}, connected...)

	teachers, err := u.teachers.FindBySubjects(ctx, roleID, subjects, exclude, entities.MaxRecommendations)
	if err != nil {
		return nil, err
	}
	if teachers == nil {
		teachers = []*entities.User{}
	}
	return teachers, nil
}

// SimilarTeachers returns teachers with exactly the same languages, subjects and location
func (u *SearchUsecase) SimilarTeachers(ctx context.Context, teacherID uuid.UUID) ([]*entities.User, error) {
	reference, err := u.userRepo.GetByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	roleID, err := u.teacherRoleID(ctx)
	if err != nil {
		return nil, err
	}

	similar := []*entities.User{}
	if reference.Location == nil || len(reference.Languages) == 0 || len(reference.Subjects) == 0 {
		return similar, nil
	}

	candidates, err := u.teachers.FindByLocation(ctx, roleID, reference.Location.ID, []uuid.UUID{teacherID})
	if err != nil {
		return nil, err
	}

	languages, subjects := reference.LanguageIDs(), reference.SubjectIDs()
	for _, c := range candidates {
		if c.ID == teacherID {
			continue
		}
		if !sameIDSet(c.LanguageIDs(), languages) || !sameIDSet(c.SubjectIDs(), subjects) {
			continue
		}
		similar = append(similar, c)
		if len(similar) == entities.MaxSimilarTeachers {
			break
		}
	}
	return similar, nil
}
