package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/university-service/internal/events"
	"github.com/SAP-F-2025/university-service/internal/models"
	"github.com/SAP-F-2025/university-service/internal/pagination"
	"github.com/SAP-F-2025/university-service/internal/repositories"
	"github.com/SAP-F-2025/university-service/internal/validator"
)

type enrollmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.BusinessValidator
	publisher events.EventPublisher
	pageSize  int
}

func NewEnrollmentService(repo repositories.Repository, logger *slog.Logger, validator *validator.BusinessValidator, publisher events.EventPublisher, pageSize int) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		pageSize:  pageSize,
	}
}

// Enroll relies on the storage foreign keys: an unknown student or
// course surfaces as ErrSaveConflict.
func (s *enrollmentService) Enroll(ctx context.Context, req *EnrollmentCreateRequest) (*models.Enrollment, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	grade, err := models.ParseGrade(req.Grade)
	if err != nil {
		return nil, ValidationErrors{{Field: "grade", Message: err.Error(), Value: req.Grade, Rule: "grade_letter"}}
	}

	enrollment := models.Enrollment{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Grade:     grade,
	}

	uow := s.repo.Begin(ctx)
	defer uow.Discard()

	if err := uow.Enrollments().Add(&enrollment); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, uow, "create", 0); err != nil {
		return &enrollment, err
	}

	s.logger.InfoContext(ctx, "Enrollment created",
		"enrollment_id", enrollment.EnrollmentID,
		"student_id", enrollment.StudentID,
		"course_id", enrollment.CourseID)
	events.SafePublish(ctx, s.publisher, s.logger, events.NewEvent(events.EnrollmentCreated, enrollment))
	return &enrollment, nil
}

// AssignGrade sets or, for an empty grade, clears the grade
func (s *enrollmentService) AssignGrade(ctx context.Context, id uint, req *GradeRequest) (*models.Enrollment, error) {
	uow := s.repo.Begin(ctx)
	defer uow.Discard()

	existing, err := uow.Enrollments().GetByKey(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment %d: %w", id, err)
	}

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return existing, errs
	}
	grade, err := models.ParseGrade(req.Grade)
	if err != nil {
		return existing, ValidationErrors{{Field: "grade", Message: err.Error(), Value: req.Grade, Rule: "grade_letter"}}
	}

	values := models.Enrollment{Grade: grade}
	if err := uow.Enrollments().UpdateFields(existing, repositories.EnrollmentEditableFields, &values); err != nil {
		return existing, err
	}
	if err := s.commit(ctx, uow, "grade", id); err != nil {
		return existing, err
	}

	s.logger.InfoContext(ctx, "Enrollment graded", "enrollment_id", id, "grade", req.Grade)
	events.SafePublish(ctx, s.publisher, s.logger, events.NewEvent(events.EnrollmentGraded, existing))
	return existing, nil
}

// ListUngraded pages through the enrollments of a course that have no grade yet
func (s *enrollmentService) ListUngraded(ctx context.Context, courseID uint, pageNumber int) (*pagination.Page[models.Enrollment], error) {
	uow := s.repo.Begin(ctx)
	defer uow.Discard()

	source := uow.Enrollments().List(repositories.EnrollmentQuery{
		CourseID: &courseID,
		Ungraded: true,
		Includes: []repositories.Include{repositories.IncludeStudent},
	})

	page, err := pagination.Paginate(ctx, source, pageNumber, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list ungraded enrollments: %w", err)
	}
	return page, nil
}

func (s *enrollmentService) commit(ctx context.Context, uow repositories.UnitOfWork, op string, id uint) error {
	err := uow.Commit(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrSaveConflict) {
		s.logger.WarnContext(ctx, "Enrollment save rejected", "operation", op, "enrollment_id", id, "error", err)
		return ErrSaveConflict
	}
	return fmt.Errorf("failed to %s enrollment: %w", op, err)
}
