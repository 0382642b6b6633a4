package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"promatch.backend/internal/domain/entities"
	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/internal/infrastructure/models"
	"promatch.backend/pkg/utils"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	now := time.Now()
	if user.ID == uuid.Nil {
		user.ID = utils.GenerateUUIDv7()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	m := &models.User{
		ID:           user.ID,
		Email:        user.Email,
		FullName:     user.FullName,
		PasswordHash: user.PasswordHash,
		Avatar:       user.Avatar,
		Bio:          user.Bio,
		Price:        user.Price,
		IsOnboarded:  user.IsOnboarded,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if user.Role != nil {
		m.RoleID = &user.Role.ID
	}
	if user.Location != nil {
		m.LocationID = &user.Location.ID
	}

	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID gets a hydrated user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByEmail gets a hydrated user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) first(ctx context.Context, cond string, arg interface{}) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where(cond, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	users, err := r.hydrate(ctx, []models.User{m})
	if err != nil {
		return nil, err
	}
	return users[0], nil
}

type summaryRow struct {
	ID       uuid.UUID
	FullName string
	Avatar   string
}

// GetSummaries returns display summaries keyed by id. Unknown ids are absent from the map.
func (r *UserRepository) GetSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]entities.UserSummary, error) {
	out := make(map[uuid.UUID]entities.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []summaryRow
	if err := GetDB(ctx, r.db).Model(&models.User{}).
		Select("id, full_name, avatar").
		Where("id IN ?", ids).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = entities.UserSummary{ID: row.ID, FullName: row.FullName, Avatar: row.Avatar}
	}
	return out, nil
}

// UpdateProfile updates the profile columns and replaces the language and subject sets.
// Callers run it inside a UnitOfWork so the replacement is atomic.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *entities.User) error {
	db := GetDB(ctx, r.db)

	updates := map[string]interface{}{
		"full_name":    user.FullName,
		"avatar":       user.Avatar,
		"bio":          user.Bio,
		"price":        user.Price,
		"is_onboarded": user.IsOnboarded,
		"role_id":      nil,
		"location_id":  nil,
		"updated_at":   time.Now(),
	}
	if user.Role != nil {
		updates["role_id"] = user.Role.ID
	}
	if user.Location != nil {
		updates["location_id"] = user.Location.ID
	}

	result := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}

	if err := db.Where("user_id = ?", user.ID).Delete(&models.UserLanguage{}).Error; err != nil {
		return err
	}
	if ids := user.LanguageIDs(); len(ids) > 0 {
		rows := make([]models.UserLanguage, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, models.UserLanguage{UserID: user.ID, LanguageID: id})
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return err
		}
	}

	if err := db.Where("user_id = ?", user.ID).Delete(&models.UserSubject{}).Error; err != nil {
		return err
	}
	if ids := user.SubjectIDs(); len(ids) > 0 {
		rows := make([]models.UserSubject, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, models.UserSubject{UserID: user.ID, SubjectID: id})
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete hard deletes the user along with its language and subject rows
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("user_id = ?", id).Delete(&models.UserLanguage{}).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", id).Delete(&models.UserSubject{}).Error; err != nil {
		return err
	}

	result := db.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// Search lists onboarded teachers matching filter, returning the page and the total match count
func (r *UserRepository) Search(ctx context.Context, teacherRoleID uuid.UUID, filter entities.TeacherFilter, sort entities.SortOrder, limit, offset int) ([]*entities.User, int64, error) {
	db := GetDB(ctx, r.db)
	query := teacherScope(db, teacherRoleID)

	if q := strings.TrimSpace(filter.Query); q != "" {
		query = query.Where(`LOWER(bio) LIKE LOWER(?) ESCAPE '\'`, "%"+escapeLike(q)+"%")
	}
	if filter.LocationID != nil {
		query = query.Where("location_id = ?", *filter.LocationID)
	}
	if filter.LanguageID != nil {
		query = query.Where("id IN (?)", db.Model(&models.UserLanguage{}).Select("user_id").Where("language_id = ?", *filter.LanguageID))
	}
	if filter.SubjectID != nil {
		query = query.Where("id IN (?)", db.Model(&models.UserSubject{}).Select("user_id").Where("subject_id = ?", *filter.SubjectID))
	}
	if filter.PriceMin != nil {
		query = query.Where("price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		query = query.Where("price <= ?", *filter.PriceMax)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.User
	if err := query.Order(orderFor(sort)).Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	users, err := r.hydrate(ctx, ms)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// FindBySubjects returns up to limit random teachers teaching any of subjectIDs
func (r *UserRepository) FindBySubjects(ctx context.Context, teacherRoleID uuid.UUID, subjectIDs, exclude []uuid.UUID, limit int) ([]*entities.User, error) {
	if len(subjectIDs) == 0 {
		return []*entities.User{}, nil
	}
	db := GetDB(ctx, r.db)
	query := teacherScope(db, teacherRoleID).
		Where("id IN (?)", db.Model(&models.UserSubject{}).Select("user_id").Where("subject_id IN ?", subjectIDs))
	// NOT IN on an empty list renders as NOT IN (NULL), which matches nothing
	if len(exclude) > 0 {
		query = query.Where("id NOT IN ?", exclude)
	}

	var ms []models.User
	if err := query.Order("RANDOM()").Limit(limit).Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.hydrate(ctx, ms)
}

// FindByLocation returns the onboarded teachers in a location
func (r *UserRepository) FindByLocation(ctx context.Context, teacherRoleID, locationID uuid.UUID, exclude []uuid.UUID) ([]*entities.User, error) {
	db := GetDB(ctx, r.db)
	query := teacherScope(db, teacherRoleID).Where("location_id = ?", locationID)
	if len(exclude) > 0 {
		query = query.Where("id NOT IN ?", exclude)
	}

	var ms []models.User
	if err := query.Order("id DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.hydrate(ctx, ms)
}

func teacherScope(db *gorm.DB, teacherRoleID uuid.UUID) *gorm.DB {
	return db.Model(&models.User{}).Where("role_id = ? AND is_onboarded = ?", teacherRoleID, true)
}

func orderFor(sort entities.SortOrder) string {
	switch sort {
	case entities.SortPriceAsc:
		return "price ASC, id ASC"
	case entities.SortShuffledStable:
		// UUIDv7 ids are time ordered and never change, so the order is stable across pages
		return "id DESC"
	default:
		return "price DESC, id ASC"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type userReferenceRow struct {
	UserID uuid.UUID
	ID     uuid.UUID
	Name   string
}

// hydrate resolves role, location, languages and subjects for a batch of users, preserving order
func (r *UserRepository) hydrate(ctx context.Context, ms []models.User) ([]*entities.User, error) {
	users := make([]*entities.User, 0, len(ms))
	if len(ms) == 0 {
		return users, nil
	}
	db := GetDB(ctx, r.db)

	userIDs := make([]uuid.UUID, 0, len(ms))
	var roleIDs, locationIDs []uuid.UUID
	for _, m := range ms {
		userIDs = append(userIDs, m.ID)
		if m.RoleID != nil {
			roleIDs = append(roleIDs, *m.RoleID)
		}
		if m.LocationID != nil {
			locationIDs = append(locationIDs, *m.LocationID)
		}
	}

	roles, err := referencesByID(db, entities.ReferenceRole, roleIDs)
	if err != nil {
		return nil, err
	}
	locations, err := referencesByID(db, entities.ReferenceLocation, locationIDs)
	if err != nil {
		return nil, err
	}
	languages, err := userReferences(db, "user_languages", "language_id", entities.ReferenceLanguage, userIDs)
	if err != nil {
		return nil, err
	}
	subjects, err := userReferences(db, "user_subjects", "subject_id", entities.ReferenceSubject, userIDs)
	if err != nil {
		return nil, err
	}

	for i := range ms {
		m := &ms[i]
		u := &entities.User{
			ID:           m.ID,
			Email:        m.Email,
			FullName:     m.FullName,
			PasswordHash: m.PasswordHash,
			Avatar:       m.Avatar,
			Bio:          m.Bio,
			Price:        m.Price,
			IsOnboarded:  m.IsOnboarded,
			Languages:    languages[m.ID],
			Subjects:     subjects[m.ID],
			CreatedAt:    m.CreatedAt,
			UpdatedAt:    m.UpdatedAt,
		}
		if u.Languages == nil {
			u.Languages = []entities.Language{}
		}
		if u.Subjects == nil {
			u.Subjects = []entities.Subject{}
		}
		if m.RoleID != nil {
			if role, ok := roles[*m.RoleID]; ok {
				u.Role = &role
			}
		}
		if m.LocationID != nil {
			if loc, ok := locations[*m.LocationID]; ok {
				u.Location = &loc
			}
		}
		users = append(users, u)
	}
	return users, nil
}

func referencesByID(db *gorm.DB, kind entities.ReferenceKind, ids []uuid.UUID) (map[uuid.UUID]entities.ReferenceItem, error) {
	out := make(map[uuid.UUID]entities.ReferenceItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Reference
	if err := db.Table(string(kind)).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = entities.ReferenceItem{ID: row.ID, Name: row.Name}
	}
	return out, nil
}

func userReferences(db *gorm.DB, joinTable, column string, kind entities.ReferenceKind, userIDs []uuid.UUID) (map[uuid.UUID][]entities.ReferenceItem, error) {
	var rows []userReferenceRow
	err := db.Table(joinTable+" j").
		Select("j.user_id AS user_id, r.id AS id, r.name AS name").
		Joins("JOIN "+string(kind)+" r ON r.id = j."+column).
		Where("j.user_id IN ?", userIDs).
		Order("r.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID][]entities.ReferenceItem, len(userIDs))
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], entities.ReferenceItem{ID: row.ID, Name: row.Name})
	}
	return out, nil
}
