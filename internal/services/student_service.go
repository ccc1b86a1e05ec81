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

type studentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.BusinessValidator
	publisher events.EventPublisher
	pageSize  int
}

func NewStudentService(repo repositories.Repository, logger *slog.Logger, validator *validator.BusinessValidator, publisher events.EventPublisher, pageSize int) StudentService {
	return &studentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		pageSize:  pageSize,
	}
}

// ===== LIST & DETAIL =====

func (s *studentService) List(ctx context.Context, params StudentListParams) (*StudentListResponse, error) {
	search, pageNumber := normalizeSearch(params.SearchString, params.CurrentFilter, params.PageNumber)
	field, dir := studentSort(params.SortOrder)

	uow := s.repo.Begin(ctx)
	defer uow.Discard()

	source := uow.Students().List(repositories.StudentQuery{
		Search:        search,
		SortField:     field,
		SortDirection: dir,
	})

	page, err := pagination.Paginate(ctx, source, pageNumber, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	resp := &StudentListResponse{
		Students:      page,
		CurrentSort:   params.SortOrder,
		NameSortParm:  StudentSortNameDesc,
		DateSortParm:  StudentSortDateAsc,
		CurrentFilter: search,
	}
	if params.SortOrder != StudentSortNameAsc {
		resp.NameSortParm = StudentSortNameAsc
	}
	if params.SortOrder == StudentSortDateAsc {
		resp.DateSortParm = StudentSortDateDesc
	}
	return resp, nil
}

func (s *studentService) GetDetail(ctx context.Context, id uint) (*models.Student, error) {
	uow := s.repo.Begin(ctx)
	defer uow.Discard()

	student, err := uow.Students().GetByKey(ctx, id, repositories.IncludeEnrollments, repositories.IncludeEnrollmentsCourse)
	if err != nil {
		return nil, s.lookupError(err, id)
	}
	return student, nil
}

func (s *studentService) GetForEdit(ctx context.Context, id uint) (*models.Student, error) {
	uow := s.repo.Begin(ctx)
	defer uow.Discard()

	student, err := uow.Students().GetByKey(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, id)
	}
	return student, nil
}

func (s *studentService) GetForDelete(ctx context.Context, id uint, saveChangesError bool) (*StudentDeleteConfirmation, error) {
	student, err := s.GetForEdit(ctx, id)
	if err != nil {
		return nil, err
	}

	confirmation := &StudentDeleteConfirmation{Student: student}
	if saveChangesError {
		confirmation.ErrorMessage = DeleteErrorMessage
	}
	return confirmation, nil
}

func (s *studentService) EnrollmentDateGroups(ctx context.Context) ([]repositories.EnrollmentDateGroup, error) {
	groups, err := s.repo.Stats().EnrollmentDateGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment date groups: %w", err)
	}
	return groups, nil
}

// ===== MUTATIONS =====

func (s *studentService) Create(ctx context.Context, req *StudentRequest) (*models.Student, error) {
	student := req.Student()
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return &student, errs
	}

	uow := s.repo.Begin(ctx)
	defer uow.Discard()

	if err := uow.Students().Add(&student); err != nil {
		return &student, err
	}
	if err := s.commit(ctx, uow, "create", 0); err != nil {
		return &student, err
	}

	s.logger.InfoContext(ctx, "Student created", "student_id", student.ID)
	events.SafePublish(ctx, s.publisher, s.logger, events.NewEvent(events.StudentCreated, student))
	return &student, nil
}

func (s *studentService) Update(ctx context.Context, id uint, req *StudentRequest) (*models.Student, error) {
	uow := s.repo.Begin(ctx)
	defer uow.Discard()

	existing, err := uow.Students().GetByKey(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, id)
	}

	values := req.Student()
	if errs := s.validator.Validate(req); len(errs) > 0 {
		values.ID = existing.ID
		return &values, errs
	}

	if err := uow.Students().UpdateFields(existing, repositories.StudentEditableFields, &values); err != nil {
		return existing, err
	}
	if err := s.commit(ctx, uow, "update", id); err != nil {
		return existing, err
	}

	s.logger.InfoContext(ctx, "Student updated", "student_id", id)
	events.SafePublish(ctx, s.publisher, s.logger, events.NewEvent(events.StudentUpdated, existing))
	return existing, nil
}

func (s *studentService) Delete(ctx context.Context, id uint) error {
	uow := s.repo.Begin(ctx)
	defer uow.Discard()

	student, err := uow.Students().GetByKey(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get student: %w", err)
	}

	if err := uow.Students().Remove(student); err != nil {
		return err
	}
	if err := s.commit(ctx, uow, "delete", id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Student deleted", "student_id", id)
	events.SafePublish(ctx, s.publisher, s.logger, events.NewEvent(events.StudentDeleted, map[string]uint{"id": id}))
	return nil
}

// ===== HELPERS =====

func (s *studentService) commit(ctx context.Context, uow repositories.UnitOfWork, op string, id uint) error {
	err := uow.Commit(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrSaveConflict) {
		s.logger.WarnContext(ctx, "Student save rejected", "operation", op, "student_id", id, "error", err)
		return ErrSaveConflict
	}
	return fmt.Errorf("failed to %s student: %w", op, err)
}

func (s *studentService) lookupError(err error, id uint) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to get student %d: %w", id, err)
}

// normalizeSearch applies the list search rules: a new search string
// starts again from page 1, an empty one keeps the current filter.
func normalizeSearch(searchString, currentFilter string, pageNumber int) (string, int) {
	search := strings.TrimSpace(searchString)
	if search != "" {
		if search != currentFilter {
			pageNumber = 1
		}
	} else {
		search = strings.TrimSpace(currentFilter)
	}
	if pageNumber < 1 {
		pageNumber = 1
	}
	return search, pageNumber
}

func studentSort(sortOrder string) (string, repositories.SortDirection) {
	switch sortOrder {
	case StudentSortNameDesc:
		return repositories.FieldLastName, repositories.SortDesc
	case StudentSortDateAsc:
		return repositories.FieldEnrollmentDate, repositories.SortAsc
	case StudentSortDateDesc:
		return repositories.FieldEnrollmentDate, repositories.SortDesc
	default:
		return repositories.FieldLastName, repositories.SortAsc
	}
}
