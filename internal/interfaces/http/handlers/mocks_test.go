package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"promatch.backend/internal/domain/entities"
	"promatch.backend/internal/interfaces/http/middleware"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Signup(ctx context.Context, input *entities.SignupInput) (*entities.AuthResponse, error) {
	args := m.Called(ctx, input)
	res, _ := args.Get(0).(*entities.AuthResponse)
	return res, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	args := m.Called(ctx, input)
	res, _ := args.Get(0).(*entities.AuthResponse)
	return res, args.Error(1)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*entities.AuthResponse, error) {
	args := m.Called(ctx, refreshToken)
	res, _ := args.Get(0).(*entities.AuthResponse)
	return res, args.Error(1)
}

func (m *mockAuthService) Me(ctx context.Context, userID uuid.UUID) (*entities.Profile, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).(*entities.Profile)
	return res, args.Error(1)
}

func (m *mockAuthService) Onboard(ctx context.Context, userID uuid.UUID, input *entities.OnboardInput) (*entities.User, error) {
	args := m.Called(ctx, userID, input)
	res, _ := args.Get(0).(*entities.User)
	return res, args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) GetTeacher(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*entities.User)
	return res, args.Error(1)
}

func (m *mockUserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockConnectionService struct{ mock.Mock }

func (m *mockConnectionService) Connect(ctx context.Context, requesterID, targetID uuid.UUID) error {
	return m.Called(ctx, requesterID, targetID).Error(0)
}

func (m *mockConnectionService) IsConnected(ctx context.Context, a, b uuid.UUID) (bool, error) {
	args := m.Called(ctx, a, b)
	return args.Bool(0), args.Error(1)
}

func (m *mockConnectionService) ListConnections(ctx context.Context, userID uuid.UUID) ([]entities.UserSummary, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).([]entities.UserSummary)
	return res, args.Error(1)
}

type mockSearchService struct{ mock.Mock }

func (m *mockSearchService) SearchTeachers(ctx context.Context, filter entities.TeacherFilter, sort entities.SortOrder, page, limit int) (*entities.SearchPage, error) {
	args := m.Called(ctx, filter, sort, page, limit)
	res, _ := args.Get(0).(*entities.SearchPage)
	return res, args.Error(1)
}

func (m *mockSearchService) RecommendForStudent(ctx context.Context, studentID uuid.UUID) ([]*entities.User, error) {
	args := m.Called(ctx, studentID)
	res, _ := args.Get(0).([]*entities.User)
	return res, args.Error(1)
}

func (m *mockSearchService) SimilarTeachers(ctx context.Context, teacherID uuid.UUID) ([]*entities.User, error) {
	args := m.Called(ctx, teacherID)
	res, _ := args.Get(0).([]*entities.User)
	return res, args.Error(1)
}

type mockActivityService struct{ mock.Mock }

func (m *mockActivityService) GetActivity(ctx context.Context, userID uuid.UUID) (*entities.ActivityFeed, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).(*entities.ActivityFeed)
	return res, args.Error(1)
}

func (m *mockActivityService) RecordSession(ctx context.Context, initiatorID uuid.UUID, input *entities.RecordSessionInput) (*entities.SessionResponse, error) {
	args := m.Called(ctx, initiatorID, input)
	res, _ := args.Get(0).(*entities.SessionResponse)
	return res, args.Error(1)
}

type mockPaymentService struct{ mock.Mock }

func (m *mockPaymentService) ConnectURL(userID uuid.UUID) string {
	return m.Called(userID).String(0)
}

func (m *mockPaymentService) ConnectedRedirect() string { return m.Called().String(0) }

func (m *mockPaymentService) FailedRedirect() string { return m.Called().String(0) }

func (m *mockPaymentService) CompleteOAuth(ctx context.Context, code, state string) error {
	return m.Called(ctx, code, state).Error(0)
}

func (m *mockPaymentService) Status(ctx context.Context, userID uuid.UUID) (entities.PaymentAccountStatus, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(entities.PaymentAccountStatus), args.Error(1)
}

func (m *mockPaymentService) CreateCheckout(ctx context.Context, studentID, teacherID uuid.UUID) (*entities.Checkout, error) {
	args := m.Called(ctx, studentID, teacherID)
	res, _ := args.Get(0).(*entities.Checkout)
	return res, args.Error(1)
}

func (m *mockPaymentService) HandleNotification(ctx context.Context, n *entities.PaymentNotification) (*entities.Payment, error) {
	args := m.Called(ctx, n)
	res, _ := args.Get(0).(*entities.Payment)
	return res, args.Error(1)
}

type mockChatService struct{ mock.Mock }

func (m *mockChatService) Token(userID uuid.UUID) (*entities.ChatToken, error) {
	args := m.Called(userID)
	res, _ := args.Get(0).(*entities.ChatToken)
	return res, args.Error(1)
}

func (m *mockChatService) UnreadCounts(ctx context.Context, userID uuid.UUID) (entities.UnreadCounts, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).(entities.UnreadCounts)
	return res, args.Error(1)
}

func (m *mockChatService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	return m.Called(ctx, body, signature).Error(0)
}

type mockUploadService struct{ mock.Mock }

func (m *mockUploadService) UploadAvatar(ctx context.Context, filename string, size int64, file io.Reader) (string, error) {
	body, _ := io.ReadAll(file)
	args := m.Called(ctx, filename, size, body)
	return args.String(0), args.Error(1)
}

type mockReferenceService struct{ mock.Mock }

func (m *mockReferenceService) List(ctx context.Context, kind entities.ReferenceKind) ([]entities.ReferenceItem, error) {
	args := m.Called(ctx, kind)
	res, _ := args.Get(0).([]entities.ReferenceItem)
	return res, args.Error(1)
}

// helpers

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// asUser stands in for AuthMiddleware
func asUser(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, id)
		c.Next()
	}
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body
}
