package services

import (
	"context"
	"io"

	"github.com/SAP-F-2025/university-service/internal/models"
	"github.com/SAP-F-2025/university-service/internal/pagination"
	"github.com/SAP-F-2025/university-service/internal/repositories"
)

// ===== REQUEST/RESPONSE DTOs =====

type StudentRequest = models.StudentRequest
type CourseCreateRequest = models.CourseCreateRequest
type CourseUpdateRequest = models.CourseUpdateRequest
type EnrollmentCreateRequest = models.EnrollmentCreateRequest
type GradeRequest = models.GradeRequest

// Sort keys accepted by the student list
const (
	StudentSortNameAsc  = ""
	StudentSortNameDesc = "name_desc"
	StudentSortDateAsc  = "Date"
	StudentSortDateDesc = "date_desc"
)

type StudentListParams struct {
	SortOrder     string `form:"sort_order"`
	CurrentFilter string `form:"current_filter"`
	SearchString  string `form:"search_string"`
	PageNumber    int    `form:"page_number"`
}

// StudentListResponse is one page of students plus the sort and filter
// state the next request should echo back.
type StudentListResponse struct {
	Students      *pagination.Page[models.Student] `json:"students"`
	CurrentSort   string                           `json:"current_sort"`
	NameSortParm  string                           `json:"name_sort_parm"`
	DateSortParm  string                           `json:"date_sort_parm"`
	CurrentFilter string                           `json:"current_filter"`
}

type StudentDeleteConfirmation struct {
	Student      *models.Student `json:"student"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// Sort keys accepted by the course list
const (
	CourseSortTitleAsc    = ""
	CourseSortTitleDesc   = "title_desc"
	CourseSortCreditsAsc  = "Credits"
	CourseSortCreditsDesc = "credits_desc"
)

type CourseListParams struct {
	SortOrder    string `form:"sort_order"`
	SearchString string `form:"search_string"`
	PageNumber   int    `form:"page_number"`
}

type CourseDeleteConfirmation struct {
	Course       *models.Course `json:"course"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

type RosterExportParams struct {
	SortOrder    string `form:"sort_order"`
	SearchString string `form:"search_string"`
}

// RosterRowError lists the validation failures of one spreadsheet row.
// Row is 1-based and counts the header.
type RosterRowError struct {
	Row    int              `json:"row"`
	Errors ValidationErrors `json:"errors"`
}

type RosterImportResult struct {
	Imported  int              `json:"imported"`
	Students  []models.Student `json:"students,omitempty"`
	RowErrors []RosterRowError `json:"row_errors,omitempty"`
}

// ===== SERVICE INTERFACES =====

type StudentService interface {
	List(ctx context.Context, params StudentListParams) (*StudentListResponse, error)
	GetDetail(ctx context.Context, id uint) (*models.Student, error)

	// Create returns the submitted student alongside ValidationErrors or
	// ErrSaveConflict so the caller can re-render it.
	Create(ctx context.Context, req *StudentRequest) (*models.Student, error)

	GetForEdit(ctx context.Context, id uint) (*models.Student, error)
	Update(ctx context.Context, id uint, req *StudentRequest) (*models.Student, error)

	GetForDelete(ctx context.Context, id uint, saveChangesError bool) (*StudentDeleteConfirmation, error)

	// Delete treats a missing student as already deleted
	Delete(ctx context.Context, id uint) error

	EnrollmentDateGroups(ctx context.Context) ([]repositories.EnrollmentDateGroup, error)
}

type CourseService interface {
	List(ctx context.Context, params CourseListParams) (*pagination.Page[models.Course], error)
	Get(ctx context.Context, id uint) (*models.Course, error)
	Create(ctx context.Context, req *CourseCreateRequest) (*models.Course, error)
	Update(ctx context.Context, id uint, req *CourseUpdateRequest) (*models.Course, error)
	GetForDelete(ctx context.Context, id uint, saveChangesError bool) (*CourseDeleteConfirmation, error)
	Delete(ctx context.Context, id uint) error
}

type EnrollmentService interface {
	Enroll(ctx context.Context, req *EnrollmentCreateRequest) (*models.Enrollment, error)
	AssignGrade(ctx context.Context, id uint, req *GradeRequest) (*models.Enrollment, error)
	ListUngraded(ctx context.Context, courseID uint, pageNumber int) (*pagination.Page[models.Enrollment], error)
}

type RosterService interface {
	// Export writes the filtered student list as an xlsx workbook
	Export(ctx context.Context, params RosterExportParams, w io.Writer) error

	// Import adds one student per data row of the first sheet. Nothing is
	// committed when any row is invalid.
	Import(ctx context.Context, r io.Reader) (*RosterImportResult, error)
}

// ServiceManager interface for managing all services
type ServiceManager interface {
	Student() StudentService
	Course() CourseService
	Enrollment() EnrollmentService
	Roster() RosterService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
