package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// CourseKey is the cache key of one course detail view
func CourseKey(courseID uint, variant string) string {
	return fmt.Sprintf("id:%d:%s", courseID, variant)
}

// InvalidateCourseCache drops every cached view of one course
func InvalidateCourseCache(ctx context.Context, cm *CacheManager, courseID uint) {
	SafeInvalidatePattern(ctx, cm.Course, fmt.Sprintf("id:%d:*", courseID))
}

// InvalidateAllCourses drops every cached course view. Student edits
// change the rosters embedded in course details.
func InvalidateAllCourses(ctx context.Context, cm *CacheManager) {
	SafeInvalidatePattern(ctx, cm.Course, "id:*")
}

// EnrollmentDatesKey caches the student count per enrollment date
const EnrollmentDatesKey = "enrollment_dates"

// InvalidateStudentStats drops aggregates computed over students
func InvalidateStudentStats(ctx context.Context, cm *CacheManager) {
	SafeDelete(ctx, cm.Stats, EnrollmentDatesKey)
}
