package domain

import (
	"github.com/goccy/go-json"
)

// Pagination defaults and limits
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
	MaxPageSize       = 100
)

// PageRequest is a 1-based page selection.
type PageRequest struct {
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
}

func DefaultPageRequest() PageRequest {
	return PageRequest{PageNumber: DefaultPageNumber, PageSize: DefaultPageSize}
}

func (r PageRequest) Validate() error {
	if r.PageNumber < 1 {
		return &PageError{Message: "PageNumber must be at least 1"}
	}
	if r.PageSize < 1 || r.PageSize > MaxPageSize {
		return &PageError{Message: "PageSize must be between 1 and 100"}
	}
	return nil
}

// PagedResult is one page of items plus the size of the whole result.
// Page count and navigation flags are derived on every call.
type PagedResult[T any] struct {
	Items      []T
	PageNumber int
	PageSize   int
	TotalCount int64
}

func NewPagedResult[T any](items []T, pageNumber, pageSize int, totalCount int64) PagedResult[T] {
	if items == nil {
		items = []T{}
	}
	return PagedResult[T]{
		Items:      items,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}

func (p PagedResult[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return int((p.TotalCount + int64(p.PageSize) - 1) / int64(p.PageSize))
}

func (p PagedResult[T]) HasPreviousPage() bool { return p.PageNumber > 1 }

func (p PagedResult[T]) HasNextPage() bool { return p.PageNumber < p.TotalPages() }

// MarshalJSON renders the response shape including the derived fields.
func (p PagedResult[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Items           []T   `json:"items"`
		PageNumber      int   `json:"pageNumber"`
		PageSize        int   `json:"pageSize"`
		TotalCount      int64 `json:"totalCount"`
		TotalPages      int   `json:"totalPages"`
		HasPreviousPage bool  `json:"hasPreviousPage"`
		HasNextPage     bool  `json:"hasNextPage"`
	}{
		Items:           p.Items,
		PageNumber:      p.PageNumber,
		PageSize:        p.PageSize,
		TotalCount:      p.TotalCount,
		TotalPages:      p.TotalPages(),
		HasPreviousPage: p.HasPreviousPage(),
		HasNextPage:     p.HasNextPage(),
	})
}

// MapItems converts the items of a page, keeping its metadata.
func MapItems[T, U any](p PagedResult[T], fn func(T) U) PagedResult[U] {
	out := make([]U, len(p.Items))
	for i, it := range p.Items {
		out[i] = fn(it)
	}
	return NewPagedResult(out, p.PageNumber, p.PageSize, p.TotalCount)
}
