package entities

import (
	"strings"

	"github.com/google/uuid"
)

// SortOrder controls the ordering of teacher search results
type SortOrder string

const (
	SortPriceAsc       SortOrder = "price-asc"
	SortPriceDesc      SortOrder = "price-desc"
	SortShuffledStable SortOrder = "shuffled-stable"

	DefaultSortOrder = SortPriceDesc
)

// ParseSortOrder accepts canonical names plus the short aliases asc, desc and random.
// Empty input yields the default order.
func ParseSortOrder(raw string) (SortOrder, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return DefaultSortOrder, true
	case string(SortPriceAsc), "asc":
		return SortPriceAsc, true
	case string(SortPriceDesc), "desc":
		return SortPriceDesc, true
	case string(SortShuffledStable), "random":
		return SortShuffledStable, true
	default:
		return "", false
	}
}

// TeacherFilter narrows a teacher search. Nil fields are not applied.
type TeacherFilter struct {
	Query      string
	LocationID *uuid.UUID
	LanguageID *uuid.UUID
	SubjectID  *uuid.UUID
	PriceMin   *float64
	PriceMax   *float64
}

// SearchPage is a page of teacher search results
type SearchPage struct {
	Data    []*User `json:"data"`
	Page    int     `json:"page"`
	Limit   int     `json:"limit"`
	Total   int64   `json:"total"`
	HasMore bool    `json:"hasMore"`
}

const (
	// MaxRecommendations bounds subject-overlap recommendations
	MaxRecommendations = 20
	// MaxSimilarTeachers bounds similarity recommendations
	MaxSimilarTeachers = 10
)
