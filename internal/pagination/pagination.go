package pagination

import (
	"context"
	"errors"
	"fmt"
)

var ErrInvalidPageSize = errors.New("page size must be greater than zero")

// Source is a lazily evaluated, side-effect free sequence. Paginate
// evaluates it twice: once for the count and once for the page slice.
type Source[T any] interface {
	Count(ctx context.Context) (int64, error)
	Fetch(ctx context.Context, offset, limit int) ([]T, error)
}

// Page is one materialised window of a Source plus navigation metadata
type Page[T any] struct {
	Items           []T   `json:"items"`
	PageIndex       int   `json:"page_index"`
	PageSize        int   `json:"page_size"`
	TotalCount      int64 `json:"total_count"`
	TotalPages      int   `json:"total_pages"`
	HasPreviousPage bool  `json:"has_previous_page"`
	HasNextPage     bool  `json:"has_next_page"`
}

// Paginate counts the source and fetches the items of the 1-based page.
// A pageIndex below 1 is treated as 1. Pages past the end are empty.
func Paginate[T any](ctx context.Context, source Source[T], pageIndex, pageSize int) (*Page[T], error) {
	if pageSize <= 0 {
		return nil, ErrInvalidPageSize
	}
	if pageIndex < 1 {
		pageIndex = 1
	}

	total, err := source.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}

	totalPages := TotalPages(total, pageSize)

	items := make([]T, 0)
	offset := (pageIndex - 1) * pageSize
	if int64(offset) < total {
		fetched, err := source.Fetch(ctx, offset, pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", pageIndex, err)
		}
		if fetched != nil {
			items = fetched
		}
	}

	return &Page[T]{
		Items:           items,
		PageIndex:       pageIndex,
		PageSize:        pageSize,
		TotalCount:      total,
		TotalPages:      totalPages,
		HasPreviousPage: pageIndex > 1,
		HasNextPage:     pageIndex < totalPages,
	}, nil
}

// TotalPages is ceil(total / pageSize)
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
