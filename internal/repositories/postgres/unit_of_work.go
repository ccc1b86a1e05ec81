package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/university-service/internal/cache"
	"github.com/SAP-F-2025/university-service/internal/repositories"
	"gorm.io/gorm"
)

// mutation is one staged write. apply runs inside the commit transaction,
// afterCommit only once the transaction has been committed. Mutations
// sharing an afterKey run their afterCommit hook once.
type mutation struct {
	op          string
	apply       func(tx *gorm.DB) error
	afterKey    string
	afterCommit func(ctx context.Context)
}

type unitOfWork struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
	logger       *slog.Logger

	mu      sync.Mutex
	pending []mutation
	closed  bool

	students    repositories.StudentSet
	courses     repositories.CourseSet
	enrollments repositories.EnrollmentSet
}

func newUnitOfWork(ctx context.Context, db *gorm.DB, cacheManager *cache.CacheManager, logger *slog.Logger) *unitOfWork {
	u := &unitOfWork{
		db:           db.WithContext(ctx),
		cacheManager: cacheManager,
		logger:       logger,
	}
	u.students = newStudentSet(u)
	u.courses = newCourseSet(u)
	u.enrollments = newEnrollmentSet(u)
	return u
}

func (u *unitOfWork) Students() repositories.StudentSet {
	return u.students
}

func (u *unitOfWork) Courses() repositories.CourseSet {
	return u.courses
}

func (u *unitOfWork) Enrollments() repositories.EnrollmentSet {
	return u.enrollments
}

func (u *unitOfWork) Pending() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.pending)
}

func (u *unitOfWork) checkOpen() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return repositories.ErrUnitOfWorkClosed
	}
	return nil
}

func (u *unitOfWork) stage(m mutation) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return repositories.ErrUnitOfWorkClosed
	}
	u.pending = append(u.pending, m)
	return nil
}

// Commit writes every staged mutation in a single transaction bound to ctx,
// so a cancelled request rolls it back.
func (u *unitOfWork) Commit(ctx context.Context) error {
	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return repositories.ErrUnitOfWorkClosed
	}
	u.closed = true
	pending := u.pending
	u.pending = nil
	u.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range pending {
			if err := m.apply(tx); err != nil {
				return fmt.Errorf("%s: %w", m.op, err)
			}
		}
		return nil
	})
	if err != nil {
		if isConstraintViolation(err) {
			u.logger.WarnContext(ctx, "Commit rejected by storage constraint", "error", err, "mutations", len(pending))
			return fmt.Errorf("%w: %w", repositories.ErrSaveConflict, err)
		}
		return fmt.Errorf("failed to commit unit of work: %w", err)
	}

	done := make(map[string]bool)
	for _, m := range pending {
		if m.afterCommit == nil || done[m.afterKey] {
			continue
		}
		if m.afterKey != "" {
			done[m.afterKey] = true
		}
		m.afterCommit(ctx)
	}

	return nil
}

func (u *unitOfWork) Discard() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.closed && len(u.pending) > 0 {
		u.logger.Debug("Discarding staged mutations", "mutations", len(u.pending))
	}
	u.closed = true
	u.pending = nil
}
