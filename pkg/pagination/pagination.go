// Package pagination implements page/per-page pagination for list
// endpoints. Parameters come from the query string; out-of-range values
// fall back to defaults instead of erroring.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 25
	MaxPerPage     = 100
)

// Params is a parsed page request.
type Params struct {
	Page    int
	PerPage int
}

// Offset returns the row offset for the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Limit returns the row limit for the page.
func (p Params) Limit() int {
	return p.PerPage
}

// Result wraps a page of rows with the counts a client needs to render
// pager controls.
type Result[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewResult builds a Result from a page of rows and the total row count.
func NewResult[T any](items []T, p Params, total int64) Result[T] {
	if items == nil {
		items = []T{}
	}
	pages := int(total) / p.PerPage
	if int(total)%p.PerPage != 0 {
		pages++
	}
	return Result[T]{
		Items:      items,
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      total,
		TotalPages: pages,
	}
}

// FromRequest reads page and per_page from the request query string.
func FromRequest(r *http.Request) Params {
	q := r.URL.Query()
	return Params{
		Page:    parseBounded(q.Get("page"), DefaultPage, 1, 1<<30),
		PerPage: parseBounded(q.Get("per_page"), DefaultPerPage, 1, MaxPerPage),
	}
}

func parseBounded(raw string, fallback, min, max int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min {
		return fallback
	}
	if n > max {
		return max
	}
	return n
}
