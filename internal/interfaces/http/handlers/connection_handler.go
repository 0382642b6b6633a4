package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"promatch.backend/internal/domain/entities"
	"promatch.backend/internal/interfaces/http/response"
)

// ConnectionService is the graph surface used by ConnectionHandler
type ConnectionService interface {
	Connect(ctx context.Context, requesterID, targetID uuid.UUID) error
	IsConnected(ctx context.Context, a, b uuid.UUID) (bool, error)
	ListConnections(ctx context.Context, userID uuid.UUID) ([]entities.UserSummary, error)
}

// ConnectionHandler handles student-teacher connections
type ConnectionHandler struct {
	connections ConnectionService
}

func NewConnectionHandler(connections ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connections: connections}
}

// Connect links the authenticated student with a teacher
// PUT /api/v1/users/teachers/:id/connect
func (h *ConnectionHandler) Connect(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	teacherID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.connections.Connect(c.Request.Context(), userID, teacherID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"connected": true})
}

// Status reports whether the authenticated user is connected to a teacher
// GET /api/v1/users/teachers/:id/connection-status
func (h *ConnectionHandler) Status(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	teacherID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	connected, err := h.connections.IsConnected(c.Request.Context(), userID, teacherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"connected": connected})
}

// List returns the authenticated user's connections
// GET /api/v1/users/connections
func (h *ConnectionHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	summaries, err := h.connections.ListConnections(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, summaries)
}
