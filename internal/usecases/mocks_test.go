package usecases_test

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"promatch.backend/internal/domain/entities"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]entities.UserSummary, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]entities.UserSummary), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// Mock TeacherQuery
type MockTeacherQuery struct {
	mock.Mock
}

func (m *MockTeacherQuery) Search(ctx context.Context, roleID uuid.UUID, filter entities.TeacherFilter, sort entities.SortOrder, limit, offset int) ([]*entities.User, int64, error) {
	args := m.Called(ctx, roleID, filter, sort, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockTeacherQuery) FindBySubjects(ctx context.Context, roleID uuid.UUID, subjectIDs, exclude []uuid.UUID, limit int) ([]*entities.User, error) {
	args := m.Called(ctx, roleID, subjectIDs, exclude, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *MockTeacherQuery) FindByLocation(ctx context.Context, roleID, locationID uuid.UUID, exclude []uuid.UUID) ([]*entities.User, error) {
	args := m.Called(ctx, roleID, locationID, exclude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

// Mock ReferenceRepository
type MockReferenceRepository struct {
	mock.Mock
}

func (m *MockReferenceRepository) List(ctx context.Context, kind entities.ReferenceKind) ([]entities.ReferenceItem, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ReferenceItem), args.Error(1)
}

func (m *MockReferenceRepository) GetByName(ctx context.Context, kind entities.ReferenceKind, name string) (*entities.ReferenceItem, error) {
	args := m.Called(ctx, kind, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ReferenceItem), args.Error(1)
}

func (m *MockReferenceRepository) CountByIDs(ctx context.Context, kind entities.ReferenceKind, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, kind, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReferenceRepository) EnsureNames(ctx context.Context, kind entities.ReferenceKind, names []string) (int64, error) {
	args := m.Called(ctx, kind, names)
	return args.Get(0).(int64), args.Error(1)
}

// Mock ConnectionRepository
type MockConnectionRepository struct {
	mock.Mock
}

func (m *MockConnectionRepository) Connect(ctx context.Context, a, b uuid.UUID) (bool, error) {
	args := m.Called(ctx, a, b)
	return args.Bool(0), args.Error(1)
}

func (m *MockConnectionRepository) Exists(ctx context.Context, a, b uuid.UUID) (bool, error) {
	args := m.Called(ctx, a, b)
	return args.Bool(0), args.Error(1)
}

func (m *MockConnectionRepository) ListIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockConnectionRepository) ListSummaries(ctx context.Context, userID uuid.UUID) ([]entities.UserSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.UserSummary), args.Error(1)
}

func (m *MockConnectionRepository) RemoveAllForUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// Mock PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *entities.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockPaymentRepository) GetByExternalID(ctx context.Context, externalID string) (*entities.Payment, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListLatestByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.Payment, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) DetachUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// Mock PaymentAccountRepository
type MockPaymentAccountRepository struct {
	mock.Mock
}

func (m *MockPaymentAccountRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.PaymentAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentAccount), args.Error(1)
}

func (m *MockPaymentAccountRepository) Upsert(ctx context.Context, account *entities.PaymentAccount) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockPaymentAccountRepository) ListExpiring(ctx context.Context, before time.Time) ([]*entities.PaymentAccount, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PaymentAccount), args.Error(1)
}

func (m *MockPaymentAccountRepository) MarkDisconnected(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockPaymentAccountRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// Mock VirtualClassRepository
type MockVirtualClassRepository struct {
	mock.Mock
}

func (m *MockVirtualClassRepository) Create(ctx context.Context, class *entities.VirtualClass) error {
	return m.Called(ctx, class).Error(0)
}

func (m *MockVirtualClassRepository) ListLatestByParticipant(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.VirtualClass, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.VirtualClass), args.Error(1)
}

func (m *MockVirtualClassRepository) RemoveParticipant(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// Mock ChatService
type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) UpsertIdentity(ctx context.Context, identity entities.ChatIdentity) error {
	return m.Called(ctx, identity).Error(0)
}

func (m *MockChatService) IssueAccessToken(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockChatService) UnreadCounts(ctx context.Context, userID uuid.UUID) (entities.UnreadCounts, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entities.UnreadCounts), args.Error(1)
}

func (m *MockChatService) VerifyWebhook(body []byte, signature string) bool {
	return m.Called(body, signature).Bool(0)
}

func (m *MockChatService) APIKey() string {
	return m.Called().String(0)
}

// Mock PaymentProcessor
type MockPaymentProcessor struct {
	mock.Mock
}

func (m *MockPaymentProcessor) AuthorizeURL(state string) string {
	return m.Called(state).String(0)
}

func (m *MockPaymentProcessor) ExchangeCode(ctx context.Context, code string) (*entities.OAuthCredentials, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.OAuthCredentials), args.Error(1)
}

func (m *MockPaymentProcessor) RefreshToken(ctx context.Context, refreshToken string) (*entities.OAuthCredentials, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.OAuthCredentials), args.Error(1)
}

func (m *MockPaymentProcessor) CreateCheckout(ctx context.Context, sellerToken string, req entities.CheckoutRequest) (*entities.Checkout, error) {
	args := m.Called(ctx, sellerToken, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Checkout), args.Error(1)
}

func (m *MockPaymentProcessor) FetchPaymentDetails(ctx context.Context, paymentID string) (*entities.PaymentDetails, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentDetails), args.Error(1)
}

// Mock MediaUploader
type MockMediaUploader struct {
	mock.Mock
}

func (m *MockMediaUploader) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	body, _ := io.ReadAll(file)
	args := m.Called(ctx, body, filename)
	return args.String(0), args.Error(1)
}

// Mock EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	return m.Called(ctx, routingKey, payload).Error(0)
}

// fixtures

var (
	teacherRole = &entities.Role{ID: uuid.New(), Name: string(entities.RoleTeacher)}
	studentRole = &entities.Role{ID: uuid.New(), Name: string(entities.RoleStudent)}
)

func newTeacher() *entities.User {
	return &entities.User{ID: uuid.New(), Email: "profe@mail.com", FullName: "Ana Profe", Role: teacherRole, IsOnboarded: true, Price: 1500}
}

func newStudent() *entities.User {
	return &entities.User{ID: uuid.New(), Email: "alumno@mail.com", FullName: "Juan Alumno", Role: studentRole, IsOnboarded: true}
}
