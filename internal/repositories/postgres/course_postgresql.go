package postgres

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/SAP-F-2025/university-service/internal/cache"
	"github.com/SAP-F-2025/university-service/internal/models"
	"github.com/SAP-F-2025/university-service/internal/pagination"
	"github.com/SAP-F-2025/university-service/internal/repositories"
	"gorm.io/gorm"
)

var courseSortColumns = map[string]string{
	repositories.FieldTitle:   "title",
	repositories.FieldCredits: "credits",
}

var courseMapping = &entityMapping[models.Course, repositories.CourseQuery]{
	name:      "course",
	keyColumn: "course_id",
	keyOf:     func(c *models.Course) uint { return c.CourseID },
	fields: map[string]boundField[models.Course]{
		repositories.FieldTitle: {
			column: "title",
			assign: func(dst, src *models.Course) { dst.Title = src.Title },
			value:  func(c *models.Course) interface{} { return c.Title },
		},
		repositories.FieldCredits: {
			column: "credits",
			assign: func(dst, src *models.Course) { dst.Credits = src.Credits },
			value:  func(c *models.Course) interface{} { return c.Credits },
		},
	},
	includes: map[repositories.Include][]pagination.Scope{
		repositories.IncludeEnrollments:        {orderedEnrollments()},
		repositories.IncludeEnrollmentsStudent: {orderedEnrollments(), preload("Enrollments.Student")},
	},
	list: func(db *gorm.DB, q repositories.CourseQuery) (*gorm.DB, pagination.Scope, []repositories.Include) {
		if search := strings.TrimSpace(q.Search); search != "" {
			db = db.Where(`LOWER(title) LIKE ? ESCAPE '\'`, containsPattern(search))
		}
		return db, orderBy(courseSortColumns, q.SortField, q.SortDirection, "course_id", "course_id"), q.Includes
	},
	invalidationKey: func(c *models.Course) string { return fmt.Sprintf("course:%d", c.CourseID) },
	invalidate: func(ctx context.Context, cm *cache.CacheManager, c *models.Course) {
		cache.InvalidateCourseCache(ctx, cm, c.CourseID)
	},
}

// courseSet serves GetByKey from the course cache when one is configured
type courseSet struct {
	*entitySet[models.Course, repositories.CourseQuery]
}

func newCourseSet(u *unitOfWork) repositories.CourseSet {
	return &courseSet{
		entitySet: &entitySet[models.Course, repositories.CourseQuery]{uow: u, mapping: courseMapping},
	}
}

func (s *courseSet) GetByKey(ctx context.Context, key uint, includes ...repositories.Include) (*models.Course, error) {
	cm := s.uow.cacheManager
	if cm == nil || !cm.Course.Enabled() {
		return s.entitySet.GetByKey(ctx, key, includes...)
	}
	if err := s.uow.checkOpen(); err != nil {
		return nil, err
	}

	var course models.Course
	err := cm.Course.CacheOrExecute(ctx, cache.CourseKey(key, courseCacheVariant(includes)), &course, func() (interface{}, error) {
		return s.entitySet.GetByKey(ctx, key, includes...)
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// courseCacheVariant names the shape of a cached course by its includes
func courseCacheVariant(includes []repositories.Include) string {
	if len(includes) == 0 {
		return "plain"
	}
	names := make([]string, 0, len(includes))
	for _, include := range includes {
		names = append(names, string(include))
	}
	slices.Sort(names)
	names = slices.Compact(names)
	return strings.Join(names, "+")
}
