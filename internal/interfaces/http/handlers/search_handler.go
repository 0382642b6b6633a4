package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"promatch.backend/internal/domain/entities"
	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/internal/interfaces/http/response"
)

// SearchService is the discovery surface used by SearchHandler
type SearchService interface {
	SearchTeachers(ctx context.Context, filter entities.TeacherFilter, sort entities.SortOrder, page, limit int) (*entities.SearchPage, error)
	RecommendForStudent(ctx context.Context, studentID uuid.UUID) ([]*entities.User, error)
	SimilarTeachers(ctx context.Context, teacherID uuid.UUID) ([]*entities.User, error)
}

// SearchHandler handles teacher search and recommendations
type SearchHandler struct {
	search SearchService
}

func NewSearchHandler(search SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search lists teachers matching the query string filters
// GET /api/v1/users/teachers/search
func (h *SearchHandler) Search(c *gin.Context) {
	var q searchQuery
	filter, err := q.parse(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	sort, ok := entities.ParseSortOrder(c.Query("sort"))
	if !ok {
		response.Error(c, domainerrors.Validation("sort must be one of price-asc, price-desc, shuffled-stable").WithFields("sort"))
		return
	}

	page := q.int(c, "page", 1)
	limit := q.int(c, "limit", 0)
	if q.err != nil {
		response.Error(c, q.err)
		return
	}

	result, err := h.search.SearchTeachers(c.Request.Context(), filter, sort, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Recommended lists teachers sharing subjects with the authenticated student
// GET /api/v1/users/teachers/recommended
func (h *SearchHandler) Recommended(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	teachers, err := h.search.RecommendForStudent(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, teachers)
}

// Similar lists teachers with the same languages, subjects and location
// GET /api/v1/users/teachers/:id/similar
func (h *SearchHandler) Similar(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	teachers, err := h.search.SimilarTeachers(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, teachers)
}

// searchQuery collects the first malformed parameter
type searchQuery struct {
	err error
}

func (q *searchQuery) parse(c *gin.Context) (entities.TeacherFilter, error) {
	filter := entities.TeacherFilter{
		Query:      strings.TrimSpace(c.Query("q")),
		LocationID: q.uuid(c, "locationId"),
		LanguageID: q.uuid(c, "languageId"),
		SubjectID:  q.uuid(c, "subjectId"),
		PriceMin:   q.float(c, "priceMin"),
		PriceMax:   q.float(c, "priceMax"),
	}
	return filter, q.err
}

func (q *searchQuery) fail(name string) {
	if q.err == nil {
		q.err = domainerrors.Validation("invalid " + name).WithFields(name)
	}
}

func (q *searchQuery) uuid(c *gin.Context, name string) *uuid.UUID {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		q.fail(name)
		return nil
	}
	return &id
}

func (q *searchQuery) float(c *gin.Context, name string) *float64 {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		q.fail(name)
		return nil
	}
	return &v
}

func (q *searchQuery) int(c *gin.Context, name string, def int) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.fail(name)
		return def
	}
	return v
}
