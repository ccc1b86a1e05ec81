package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/university-service/internal/events"
	"github.com/SAP-F-2025/university-service/internal/models"
	"github.com/SAP-F-2025/university-service/internal/testutil"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			t.Fatalf("failed to write row: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to write workbook: %v", err)
	}
	return buf
}

func TestRosterExport(t *testing.T) {
	env := newTestEnv(t)
	students := testutil.SeedStudents(t, env.db, "Norman", "Alexander", "Li")
	env.seedCourse(t, 1050, "Chemistry")
	env.seedEnrollment(t, students[1].ID, 1050)

	var buf bytes.Buffer
	if err := env.manager.Roster().Export(context.Background(), RosterExportParams{}, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Students")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want header + 3", len(rows))
	}
	if rows[0][1] != "Last Name" || rows[0][4] != "Enrollments" {
		t.Errorf("header = %v", rows[0])
	}

	want := [][]string{
		{"Alexander", "First1", "2001-09-01", "1"},
		{"Li", "First2", "2002-09-01", "0"},
		{"Norman", "First0", "2000-09-01", "0"},
	}
	for i, w := range want {
		got := rows[i+1][1:]
		for j := range w {
			if got[j] != w[j] {
				t.Errorf("row %d = %v, want %v", i+2, got, w)
				break
			}
		}
	}
}

func TestRosterImport(t *testing.T) {
	env := newTestEnv(t)

	buf := buildWorkbook(t, [][]interface{}{
		{"Last Name", "First Mid Name", "Enrollment Date"},
		{"Alexander", "Carson", "2005-09-01"},
		{},
		{"Alonso", "Meredith", "2002-09-01"},
	})

	result, err := env.manager.Roster().Import(context.Background(), buf)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if result.Imported != 2 || len(result.Students) != 2 {
		t.Fatalf("Imported = %d, want 2", result.Imported)
	}
	for _, s := range result.Students {
		if s.ID == 0 {
			t.Errorf("student %q has no generated ID", s.LastName)
		}
	}

	var count int64
	env.db.Model(&models.Student{}).Count(&count)
	if count != 2 {
		t.Errorf("stored students = %d, want 2", count)
	}
	if n := len(env.publisher.EventsOfType(events.StudentCreated)); n != 2 {
		t.Errorf("student.created events = %d, want 2", n)
	}
}

func TestRosterImportExcelDates(t *testing.T) {
	env := newTestEnv(t)

	buf := buildWorkbook(t, [][]interface{}{
		{"Last Name", "First Mid Name", "Enrollment Date"},
		{"Barzdukas", "Gytis", time.Date(2002, time.September, 1, 0, 0, 0, 0, time.UTC)},
		{"Justice", "Peggy", "2001-09-01"},
	})

	result, err := env.manager.Roster().Import(context.Background(), buf)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if result.Imported != 2 {
		t.Fatalf("Imported = %d, want 2", result.Imported)
	}

	want := map[string]string{"Barzdukas": "2002-09-01", "Justice": "2001-09-01"}
	for _, s := range result.Students {
		if got := models.FormatDate(s.EnrollmentDate); got != want[s.LastName] {
			t.Errorf("%s enrollment date = %s, want %s", s.LastName, got, want[s.LastName])
		}
	}
}

func TestDateCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"38596", "2005-09-01"},
		{"37500.5", "2002-09-01"},
		{"2003-09-01", "2003-09-01"},
		{"not a date", "not a date"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := dateCell(tt.in); got != tt.want {
			t.Errorf("dateCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRosterImportRejectsInvalidRows(t *testing.T) {
	env := newTestEnv(t)

	buf := buildWorkbook(t, [][]interface{}{
		{"Last Name", "First Mid Name", "Enrollment Date"},
		{"Alexander", "Carson", "2005-09-01"},
		{"", "Meredith", "2002-09-01"},
		{"Anand", "Arturo", "yesterday"},
	})

	result, err := env.manager.Roster().Import(context.Background(), buf)
	if !errors.Is(err, ErrInvalidRoster) {
		t.Fatalf("Import() error = %v, want ErrInvalidRoster", err)
	}
	if len(result.RowErrors) != 2 {
		t.Fatalf("row errors = %d, want 2", len(result.RowErrors))
	}
	if result.RowErrors[0].Row != 3 || result.RowErrors[1].Row != 4 {
		t.Errorf("rows = %d, %d, want 3, 4", result.RowErrors[0].Row, result.RowErrors[1].Row)
	}
	if result.RowErrors[1].Errors[0].Field != "enrollment_date" {
		t.Errorf("row 4 error = %+v", result.RowErrors[1].Errors)
	}

	var count int64
	env.db.Model(&models.Student{}).Count(&count)
	if count != 0 {
		t.Errorf("stored students = %d, want nothing committed", count)
	}
}

func TestRosterImportEmpty(t *testing.T) {
	env := newTestEnv(t)

	buf := buildWorkbook(t, [][]interface{}{{"Last Name", "First Mid Name", "Enrollment Date"}})
	if _, err := env.manager.Roster().Import(context.Background(), buf); !errors.Is(err, ErrEmptyRoster) {
		t.Errorf("Import() error = %v, want ErrEmptyRoster", err)
	}
}
