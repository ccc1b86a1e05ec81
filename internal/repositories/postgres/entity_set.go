package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/university-service/internal/cache"
	"github.com/SAP-F-2025/university-service/internal/pagination"
	"github.com/SAP-F-2025/university-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// boundField is one whitelisted column of an entity
type boundField[T any] struct {
	column string
	assign func(dst, src *T)
	value  func(entity *T) interface{}
}

// entityMapping describes how one entity type is stored
type entityMapping[T any, Q any] struct {
	name      string
	keyColumn string
	keyOf     func(entity *T) uint
	fields    map[string]boundField[T]
	includes  map[repositories.Include][]pagination.Scope

	// list turns a query into a filtered base, its ordering and its includes
	list func(db *gorm.DB, query Q) (*gorm.DB, pagination.Scope, []repositories.Include)

	// invalidationKey groups entities whose cache entries are dropped together
	invalidationKey func(entity *T) string
	invalidate      func(ctx context.Context, cm *cache.CacheManager, entity *T)
}

// entitySet implements repositories.EntitySet on top of a unit of work
type entitySet[T any, Q any] struct {
	uow     *unitOfWork
	mapping *entityMapping[T, Q]
}

// errSource is a Source that fails on evaluation
type errSource[T any] struct {
	err error
}

func (s errSource[T]) Count(context.Context) (int64, error) {
	return 0, s.err
}

func (s errSource[T]) Fetch(context.Context, int, int) ([]T, error) {
	return nil, s.err
}

func (s *entitySet[T, Q]) List(query Q) pagination.Source[T] {
	if err := s.uow.checkOpen(); err != nil {
		return errSource[T]{err: err}
	}

	filtered, order, includes := s.mapping.list(s.uow.db.Model(new(T)), query)
	preloads, err := preloadScopes(s.mapping.includes, includes)
	if err != nil {
		return errSource[T]{err: err}
	}

	return pagination.NewGormSource[T](filtered, append([]pagination.Scope{order}, preloads...)...)
}

func (s *entitySet[T, Q]) GetByKey(ctx context.Context, key uint, includes ...repositories.Include) (*T, error) {
	if err := s.uow.checkOpen(); err != nil {
		return nil, err
	}

	preloads, err := preloadScopes(s.mapping.includes, includes)
	if err != nil {
		return nil, err
	}

	query := s.uow.db.WithContext(ctx)
	for _, scope := range preloads {
		query = scope(query)
	}

	var entity T
	if err := query.Where(s.mapping.keyColumn+" = ?", key).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s %d: %w", s.mapping.name, key, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s %d: %w", s.mapping.name, key, err)
	}
	return &entity, nil
}

func (s *entitySet[T, Q]) Add(entity *T) error {
	return s.stage(entity, "insert", func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(entity).Error
	})
}

func (s *entitySet[T, Q]) UpdateFields(existing *T, allowed []string, values *T) error {
	if err := s.uow.checkOpen(); err != nil {
		return err
	}

	updates := make(map[string]interface{}, len(allowed))
	for _, name := range allowed {
		field, ok := s.mapping.fields[name]
		if !ok {
			continue
		}
		field.assign(existing, values)
		updates[field.column] = field.value(existing)
	}
	if len(updates) == 0 {
		return nil
	}

	key := s.mapping.keyOf(existing)
	return s.stage(existing, "update", func(tx *gorm.DB) error {
		result := tx.Model(new(T)).Where(s.mapping.keyColumn+" = ?", key).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errNoRowsAffected
		}
		return nil
	})
}

func (s *entitySet[T, Q]) Remove(entity *T) error {
	key := s.mapping.keyOf(entity)
	return s.stage(entity, "delete", func(tx *gorm.DB) error {
		result := tx.Where(s.mapping.keyColumn+" = ?", key).Delete(new(T))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errNoRowsAffected
		}
		return nil
	})
}

func (s *entitySet[T, Q]) stage(entity *T, op string, apply func(tx *gorm.DB) error) error {
	m := mutation{
		op:    op + " " + s.mapping.name,
		apply: apply,
	}

	if s.mapping.invalidate != nil && s.uow.cacheManager != nil {
		if s.mapping.invalidationKey != nil {
			m.afterKey = s.mapping.invalidationKey(entity)
		}
		m.afterCommit = func(ctx context.Context) {
			s.mapping.invalidate(ctx, s.uow.cacheManager, entity)
		}
	}

	return s.uow.stage(m)
}
