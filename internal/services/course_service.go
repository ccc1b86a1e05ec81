package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/university-service/internal/events"
	"github.com/SAP-F-2025/university-service/internal/models"
	"github.com/SAP-F-2025/university-service/internal/pagination"
	"github.com/SAP-F-2025/university-service/internal/repositories"
	"github.com/SAP-F-2025/university-service/internal/validator"
)

type courseService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.BusinessValidator
	publisher events.EventPublisher
	pageSize  int
}

func NewCourseService(repo repositories.Repository, logger *slog.Logger, validator *validator.BusinessValidator, publisher events.EventPublisher, pageSize int) CourseService {
	return &courseService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		pageSize:  pageSize,
	}
}

func (s *courseService) List(ctx context.Context, params CourseListParams) (*pagination.Page[models.Course], error) {
	field, dir := courseSort(params.SortOrder)

	uow := s.repo.Begin(ctx)
	defer uow.Discard()

	source := uow.Courses().List(repositories.CourseQuery{
		Search:        strings.TrimSpace(params.SearchString),
		SortField:     field,
		SortDirection: dir,
	})

	page, err := pagination.Paginate(ctx, source, params.PageNumber, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return page, nil
}

// Get loads the course with its enrollments and their students
func (s *courseService) Get(ctx context.Context, id uint) (*models.Course, error) {
	uow := s.repo.Begin(ctx)
	defer uow.Discard()

	course, err := uow.Courses().GetByKey(ctx, id, repositories.IncludeEnrollments, repositories.IncludeEnrollmentsStudent)
	if err != nil {
		return nil, s.lookupError(err, id)
	}
	return course, nil
}

func (s *courseService) Create(ctx context.Context, req *CourseCreateRequest) (*models.Course, error) {
	course := req.Course()
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return &course, errs
	}

	uow := s.repo.Begin(ctx)
	defer uow.Discard()

	if err := uow.Courses().Add(&course); err != nil {
		return &course, err
	}
	if err := s.commit(ctx, uow, "create", course.CourseID); err != nil {
		return &course, err
	}

	s.logger.InfoContext(ctx, "Course created", "course_id", course.CourseID)
	events.SafePublish(ctx, s.publisher, s.logger, events.NewEvent(events.CourseCreated, course))
	return &course, nil
}

func (s *courseService) Update(ctx context.Context, id uint, req *CourseUpdateRequest) (*models.Course, error) {
	uow := s.repo.Begin(ctx)
	defer uow.Discard()

	existing, err := uow.Courses().GetByKey(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, id)
	}

	values := req.Course()
	if errs := s.validator.Validate(req); len(errs) > 0 {
		values.CourseID = existing.CourseID
		return &values, errs
	}

	if err := uow.Courses().UpdateFields(existing, repositories.CourseEditableFields, &values); err != nil {
		return existing, err
	}
	if err := s.commit(ctx, uow, "update", id); err != nil {
		return existing, err
	}

	s.logger.InfoContext(ctx, "Course updated", "course_id", id)
	events.SafePublish(ctx, s.publisher, s.logger, events.NewEvent(events.CourseUpdated, existing))
	return existing, nil
}

func (s *courseService) GetForDelete(ctx context.Context, id uint, saveChangesError bool) (*CourseDeleteConfirmation, error) {
	uow := s.repo.Begin(ctx)
	defer uow.Discard()

	course, err := uow.Courses().GetByKey(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, id)
	}

	confirmation := &CourseDeleteConfirmation{Course: course}
	if saveChangesError {
		confirmation.ErrorMessage = DeleteErrorMessage
	}
	return confirmation, nil
}

func (s *courseService) Delete(ctx context.Context, id uint) error {
	uow := s.repo.Begin(ctx)
	defer uow.Discard()

	course, err := uow.Courses().GetByKey(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get course: %w", err)
	}

	if err := uow.Courses().Remove(course); err != nil {
		return err
	}
	if err := s.commit(ctx, uow, "delete", id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Course deleted", "course_id", id)
	events.SafePublish(ctx, s.publisher, s.logger, events.NewEvent(events.CourseDeleted, map[string]uint{"course_id": id}))
	return nil
}

func (s *courseService) commit(ctx context.Context, uow repositories.UnitOfWork, op string, id uint) error {
	err := uow.Commit(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrSaveConflict) {
		s.logger.WarnContext(ctx, "Course save rejected", "operation", op, "course_id", id, "error", err)
		return ErrSaveConflict
	}
	return fmt.Errorf("failed to %s course: %w", op, err)
}

func (s *courseService) lookupError(err error, id uint) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to get course %d: %w", id, err)
}

func courseSort(sortOrder string) (string, repositories.SortDirection) {
	switch sortOrder {
	case CourseSortTitleDesc:
		return repositories.FieldTitle, repositories.SortDesc
	case CourseSortCreditsAsc:
		return repositories.FieldCredits, repositories.SortAsc
	case CourseSortCreditsDesc:
		return repositories.FieldCredits, repositories.SortDesc
	default:
		return repositories.FieldTitle, repositories.SortAsc
	}
}
