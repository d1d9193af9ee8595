package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	appMiddleware "github.com/FACorreiaa/go-travel-planner/app/middleware"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// Pagination is the clamped page window requested by a list endpoint.
type Pagination struct {
	Page     int
	PageSize int
}

// Offset is the row offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// NewPagination clamps page to >= 1 and pageSize to 1..MaxPageSize.
func NewPagination(page, pageSize int) Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}

// ParsePagination reads ?page and ?page_size, ignoring malformed values.
func ParsePagination(r *http.Request) Pagination {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	return NewPagination(page, size)
}

// UserIDFromRequest returns the authenticated user id placed in the context by the JWT middleware.
func UserIDFromRequest(r *http.Request) (uuid.UUID, bool) {
	raw, ok := appMiddleware.GetUserIDFromContext(r.Context())
	if !ok || raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// URLParamUUID parses a chi route parameter as a UUID.
func URLParamUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}
