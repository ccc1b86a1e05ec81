package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/university-service/internal/events"
	"github.com/SAP-F-2025/university-service/internal/models"
	"github.com/SAP-F-2025/university-service/internal/pagination"
	"github.com/SAP-F-2025/university-service/internal/repositories"
	"github.com/SAP-F-2025/university-service/internal/validator"
)

const rosterSheet = "Students"

var rosterHeader = []interface{}{"ID", "Last Name", "First Mid Name", "Enrollment Date", "Enrollments"}

type rosterService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.BusinessValidator
	publisher events.EventPublisher
}

func NewRosterService(repo repositories.Repository, logger *slog.Logger, validator *validator.BusinessValidator, publisher events.EventPublisher) RosterService {
	return &rosterService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

func (s *rosterService) Export(ctx context.Context, params RosterExportParams, w io.Writer) error {
	field, dir := studentSort(params.SortOrder)

	uow := s.repo.Begin(ctx)
	defer uow.Discard()

	students, err := pagination.All(ctx, uow.Students().List(repositories.StudentQuery{
		Search:        strings.TrimSpace(params.SearchString),
		SortField:     field,
		SortDirection: dir,
		Includes:      []repositories.Include{repositories.IncludeEnrollments},
	}))
	if err != nil {
		return fmt.Errorf("failed to load students: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.ErrorContext(ctx, "Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), rosterSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(rosterSheet, "A1", &rosterHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, student := range students {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			student.ID,
			student.LastName,
			student.FirstMidName,
			models.FormatDate(student.EnrollmentDate),
			len(student.Enrollments),
		}
		if err := f.SetSheetRow(rosterSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.InfoContext(ctx, "Roster exported", "students", len(students))
	return nil
}

func (s *rosterService) Import(ctx context.Context, r io.Reader) (*RosterImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWorkbook, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.ErrorContext(ctx, "Failed to close workbook", "error", err)
		}
	}()

	// Data is read from the first sheet, the first row is the header
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: no sheets", ErrInvalidWorkbook)
	}

	// Raw values keep date cells as serial numbers instead of their display format
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %s: %w", ErrInvalidWorkbook, sheetName, err)
	}

	result := &RosterImportResult{}
	var requests []StudentRequest
	for i, row := range rows {
		if i == 0 || blankRow(row) {
			continue
		}

		req := StudentRequest{
			LastName:       cellAt(row, 0),
			FirstMidName:   cellAt(row, 1),
			EnrollmentDate: dateCell(cellAt(row, 2)),
		}
		if errs := s.validator.Validate(&req); len(errs) > 0 {
			result.RowErrors = append(result.RowErrors, RosterRowError{Row: i + 1, Errors: errs})
			continue
		}
		requests = append(requests, req)
	}

	if len(result.RowErrors) > 0 {
		return result, ErrInvalidRoster
	}
	if len(requests) == 0 {
		return result, ErrEmptyRoster
	}

	uow := s.repo.Begin(ctx)
	defer uow.Discard()

	students := make([]models.Student, len(requests))
	for i := range requests {
		students[i] = requests[i].Student()
		if err := uow.Students().Add(&students[i]); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		if errors.Is(err, repositories.ErrSaveConflict) {
			s.logger.WarnContext(ctx, "Roster import rejected", "rows", len(students), "error", err)
			return nil, ErrSaveConflict
		}
		return nil, fmt.Errorf("failed to import roster: %w", err)
	}

	result.Imported = len(students)
	result.Students = students
	s.logger.InfoContext(ctx, "Roster imported", "students", result.Imported)

	for _, student := range students {
		events.SafePublish(ctx, s.publisher, s.logger, events.NewEvent(events.StudentCreated, student))
	}
	return result, nil
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// dateCell turns an Excel serial date into YYYY-MM-DD. Text cells are
// returned unchanged and validated as typed.
func dateCell(value string) string {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return value
	}
	return t.Format(models.DateLayout)
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
