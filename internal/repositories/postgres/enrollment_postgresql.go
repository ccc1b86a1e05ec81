package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/university-service/internal/cache"
	"github.com/SAP-F-2025/university-service/internal/models"
	"github.com/SAP-F-2025/university-service/internal/pagination"
	"github.com/SAP-F-2025/university-service/internal/repositories"
	"gorm.io/gorm"
)

var enrollmentSortColumns = map[string]string{
	repositories.FieldGrade: "grade",
}

var enrollmentMapping = &entityMapping[models.Enrollment, repositories.EnrollmentQuery]{
	name:      "enrollment",
	keyColumn: "enrollment_id",
	keyOf:     func(e *models.Enrollment) uint { return e.EnrollmentID },
	fields: map[string]boundField[models.Enrollment]{
		repositories.FieldGrade: {
			column: "grade",
			assign: func(dst, src *models.Enrollment) { dst.Grade = src.Grade },
			value: func(e *models.Enrollment) interface{} {
				if e.Grade == nil {
					return nil
				}
				return string(*e.Grade)
			},
		},
	},
	includes: map[repositories.Include][]pagination.Scope{
		repositories.IncludeCourse:  {preload("Course")},
		repositories.IncludeStudent: {preload("Student")},
	},
	list: func(db *gorm.DB, q repositories.EnrollmentQuery) (*gorm.DB, pagination.Scope, []repositories.Include) {
		if q.StudentID != nil {
			db = db.Where("student_id = ?", *q.StudentID)
		}
		if q.CourseID != nil {
			db = db.Where("course_id = ?", *q.CourseID)
		}
		if q.Ungraded {
			db = db.Where("grade IS NULL")
		}
		return db, orderBy(enrollmentSortColumns, q.SortField, q.SortDirection, "enrollment_id", "enrollment_id"), q.Includes
	},
	// Enrollments are embedded in the cached detail of their course
	invalidationKey: func(e *models.Enrollment) string { return fmt.Sprintf("course:%d", e.CourseID) },
	invalidate: func(ctx context.Context, cm *cache.CacheManager, e *models.Enrollment) {
		cache.InvalidateCourseCache(ctx, cm, e.CourseID)
	},
}

func newEnrollmentSet(u *unitOfWork) repositories.EnrollmentSet {
	return &entitySet[models.Enrollment, repositories.EnrollmentQuery]{uow: u, mapping: enrollmentMapping}
}
