package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"promatch.backend/internal/domain/entities"
	"promatch.backend/internal/interfaces/http/response"
)

// UserService is the directory surface used by UserHandler
type UserService interface {
	GetTeacher(ctx context.Context, id uuid.UUID) (*entities.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// UserHandler serves public profiles and account deletion
type UserHandler struct {
	users UserService
	auth  *AuthHandler
}

// NewUserHandler creates a new user handler. auth is used to clear the session cookies after deletion.
func NewUserHandler(users UserService, auth *AuthHandler) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

// GetTeacher returns a teacher's full profile
// GET /api/v1/users/teachers/:id
func (h *UserHandler) GetTeacher(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	teacher, err := h.users.GetTeacher(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, teacher)
}

// DeleteMe removes the authenticated account
// DELETE /api/v1/users/me
func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	if h.auth != nil {
		h.auth.clearSession(c)
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Account deleted"})
}
