package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"promatch.backend/internal/domain/entities"
	"promatch.backend/internal/interfaces/http/response"
)

// ReferenceService lists lookup tables
type ReferenceService interface {
	List(ctx context.Context, kind entities.ReferenceKind) ([]entities.ReferenceItem, error)
}

// ReferenceHandler serves roles, locations, languages and subjects
type ReferenceHandler struct {
	refs ReferenceService
}

func NewReferenceHandler(refs ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{refs: refs}
}

// List serves one lookup table
// GET /api/v1/reference/:kind
func (h *ReferenceHandler) List(c *gin.Context) {
	items, err := h.refs.List(c.Request.Context(), entities.ReferenceKind(c.Param("kind")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}
