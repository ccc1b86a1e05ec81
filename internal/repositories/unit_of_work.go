package repositories

import (
	"context"

	"github.com/SAP-F-2025/university-service/internal/models"
	"github.com/SAP-F-2025/university-service/internal/pagination"
	"gorm.io/datatypes"
)

// UnitOfWork stages mutations in memory and writes them in one
// transaction on Commit. After Commit (successful or not) or Discard the
// unit is closed and every further call returns ErrUnitOfWorkClosed.
type UnitOfWork interface {
	Students() StudentSet
	Courses() CourseSet
	Enrollments() EnrollmentSet

	// Commit flushes staged mutations. Storage constraint failures are
	// reported as ErrSaveConflict.
	Commit(ctx context.Context) error

	// Discard drops staged mutations. Safe to call after Commit.
	Discard()

	// Pending is the number of staged mutations
	Pending() int
}

// EntitySet is the typed collection of one entity inside a unit of work
type EntitySet[T any, Q any] interface {
	// List returns a lazy source; nothing is queried until it is evaluated
	List(query Q) pagination.Source[T]

	// GetByKey returns ErrNotFound when no row has the key
	GetByKey(ctx context.Context, key uint, includes ...Include) (*T, error)

	// Add stages an insert. Generated keys are set on entity after Commit.
	Add(entity *T) error

	// UpdateFields stages an update of the allowed fields only, copying
	// them from values onto existing. Unknown and identity fields are ignored.
	UpdateFields(existing *T, allowed []string, values *T) error

	// Remove stages a delete
	Remove(entity *T) error
}

type (
	StudentSet    = EntitySet[models.Student, StudentQuery]
	CourseSet     = EntitySet[models.Course, CourseQuery]
	EnrollmentSet = EntitySet[models.Enrollment, EnrollmentQuery]
)

// EnrollmentDateGroup is the number of students who enrolled on one date
type EnrollmentDateGroup struct {
	EnrollmentDate datatypes.Date `json:"enrollment_date"`
	StudentCount   int64          `json:"student_count"`
}

type StatsRepository interface {
	EnrollmentDateGroups(ctx context.Context) ([]EnrollmentDateGroup, error)
}
