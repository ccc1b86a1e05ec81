package postgres

import (
	"context"
	"strings"

	"github.com/SAP-F-2025/university-service/internal/cache"
	"github.com/SAP-F-2025/university-service/internal/models"
	"github.com/SAP-F-2025/university-service/internal/pagination"
	"github.com/SAP-F-2025/university-service/internal/repositories"
	"gorm.io/gorm"
)

var studentSortColumns = map[string]string{
	repositories.FieldLastName:       "last_name",
	repositories.FieldFirstMidName:   "first_mid_name",
	repositories.FieldEnrollmentDate: "enrollment_date",
}

var studentMapping = &entityMapping[models.Student, repositories.StudentQuery]{
	name:      "student",
	keyColumn: "id",
	keyOf:     func(s *models.Student) uint { return s.ID },
	fields: map[string]boundField[models.Student]{
		repositories.FieldLastName: {
			column: "last_name",
			assign: func(dst, src *models.Student) { dst.LastName = src.LastName },
			value:  func(s *models.Student) interface{} { return s.LastName },
		},
		repositories.FieldFirstMidName: {
			column: "first_mid_name",
			assign: func(dst, src *models.Student) { dst.FirstMidName = src.FirstMidName },
			value:  func(s *models.Student) interface{} { return s.FirstMidName },
		},
		repositories.FieldEnrollmentDate: {
			column: "enrollment_date",
			assign: func(dst, src *models.Student) { dst.EnrollmentDate = src.EnrollmentDate },
			value:  func(s *models.Student) interface{} { return s.EnrollmentDate },
		},
	},
	includes: map[repositories.Include][]pagination.Scope{
		repositories.IncludeEnrollments:       {orderedEnrollments()},
		repositories.IncludeEnrollmentsCourse: {orderedEnrollments(), preload("Enrollments.Course")},
	},
	list: func(db *gorm.DB, q repositories.StudentQuery) (*gorm.DB, pagination.Scope, []repositories.Include) {
		if search := strings.TrimSpace(q.Search); search != "" {
			pattern := containsPattern(search)
			db = db.Where(`LOWER(last_name) LIKE ? ESCAPE '\' OR LOWER(first_mid_name) LIKE ? ESCAPE '\'`, pattern, pattern)
		}
		return db, orderBy(studentSortColumns, q.SortField, q.SortDirection, "last_name", "id"), q.Includes
	},
	// Student names appear in cached course rosters
	invalidationKey: func(*models.Student) string { return "students" },
	invalidate: func(ctx context.Context, cm *cache.CacheManager, _ *models.Student) {
		cache.InvalidateAllCourses(ctx, cm)
		cache.InvalidateStudentStats(ctx, cm)
	},
}

func newStudentSet(u *unitOfWork) repositories.StudentSet {
	return &entitySet[models.Student, repositories.StudentQuery]{uow: u, mapping: studentMapping}
}
