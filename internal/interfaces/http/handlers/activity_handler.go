package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"promatch.backend/internal/domain/entities"
	"promatch.backend/internal/interfaces/http/response"
)

// ActivityService is the history surface used by ActivityHandler
type ActivityService interface {
	GetActivity(ctx context.Context, userID uuid.UUID) (*entities.ActivityFeed, error)
	RecordSession(ctx context.Context, initiatorID uuid.UUID, input *entities.RecordSessionInput) (*entities.SessionResponse, error)
}

// ActivityHandler serves the payment and session feed
type ActivityHandler struct {
	activity ActivityService
}

func NewActivityHandler(activity ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// List returns the merged activity feed
// GET /api/v1/activity
func (h *ActivityHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	feed, err := h.activity.GetActivity(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, feed)
}

// RecordSession stores a finished video session
// POST /api/v1/activity/sessions
func (h *ActivityHandler) RecordSession(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input entities.RecordSessionInput
	if !bindJSON(c, &input) {
		return
	}

	session, err := h.activity.RecordSession(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, session)
}
