package utils

import "math"

const (
	// DefaultPageSize is used when the client does not send a limit
	DefaultPageSize = 50
	// MaxPageSize caps a single page
	MaxPageSize = 100
)

// PaginationParams holds pagination request parameters
type PaginationParams struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// PageMeta holds pagination response metadata
type PageMeta struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"hasMore"`
}

// GetPaginationParams normalizes a 1-based page and a page size.
// A missing (zero) limit becomes DefaultPageSize; anything else is clamped to [1, MaxPageSize].
// Page is capped so the offset never overflows.
func GetPaginationParams(page, limit int) PaginationParams {
	switch {
	case limit == 0:
		limit = DefaultPageSize
	case limit < 1:
		limit = 1
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	return PaginationParams{
		Page:  page,
		Limit: limit,
	}
}

// CalculateOffset returns the SQL offset
func (p PaginationParams) CalculateOffset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// CalculateMeta generates pagination metadata for a page holding returned items
func CalculateMeta(total int64, p PaginationParams, returned int) PageMeta {
	return PageMeta{
		Page:    p.Page,
		Limit:   p.Limit,
		Total:   total,
		HasMore: int64(p.CalculateOffset()+returned) < total,
	}
}
