package pagination

import (
	"context"

	"gorm.io/gorm"
)

// SliceSource pages over an in-memory sequence
type SliceSource[T any] struct {
	items []T
}

func NewSliceSource[T any](items []T) *SliceSource[T] {
	return &SliceSource[T]{items: items}
}

func (s *SliceSource[T]) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return int64(len(s.items)), nil
}

func (s *SliceSource[T]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset >= len(s.items) {
		return []T{}, nil
	}
	end := offset + limit
	if end > len(s.items) {
		end = len(s.items)
	}
	out := make([]T, end-offset)
	copy(out, s.items[offset:end])
	return out, nil
}

// Scope is a query modifier applied when fetching rows but not when counting
// (ordering, preloads).
type Scope func(*gorm.DB) *gorm.DB

// GormSource pages over a filtered GORM query. Each evaluation starts from
// a fresh session so Count and Fetch never share statement state.
type GormSource[T any] struct {
	query  *gorm.DB
	scopes []Scope
}

func NewGormSource[T any](filtered *gorm.DB, fetchScopes ...Scope) *GormSource[T] {
	return &GormSource[T]{
		query:  filtered.Session(&gorm.Session{}),
		scopes: fetchScopes,
	}
}

func (s *GormSource[T]) Count(ctx context.Context) (int64, error) {
	var total int64
	err := s.query.WithContext(ctx).Model(new(T)).Count(&total).Error
	return total, err
}

func (s *GormSource[T]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {
	query := s.query.WithContext(ctx)
	for _, scope := range s.scopes {
		query = scope(query)
	}

	items := make([]T, 0, limit)
	if err := query.Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// All fetches every row of the source in order
func All[T any](ctx context.Context, source Source[T]) ([]T, error) {
	total, err := source.Count(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return []T{}, nil
	}
	return source.Fetch(ctx, 0, int(total))
}
