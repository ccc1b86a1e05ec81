// Package seed loads the Contoso University sample data.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/university-service/internal/models"
	"github.com/SAP-F-2025/university-service/internal/repositories"
)

type studentRow struct {
	LastName       string
	FirstMidName   string
	EnrollmentDate string
}

type enrollmentRow struct {
	// Index into sampleStudents
	Student  int
	CourseID uint
	Grade    string
}

var sampleStudents = []studentRow{
	{"Alexander", "Carson", "2005-09-01"},
	{"Alonso", "Meredith", "2002-09-01"},
	{"Anand", "Arturo", "2003-09-01"},
	{"Barzdukas", "Gytis", "2002-09-01"},
	{"Li", "Yan", "2002-09-01"},
	{"Justice", "Peggy", "2001-09-01"},
	{"Norman", "Laura", "2003-09-01"},
	{"Olivetto", "Nino", "2005-09-01"},
}

var sampleCourses = []models.Course{
	{CourseID: 1050, Title: "Chemistry", Credits: 3},
	{CourseID: 4022, Title: "Microeconomics", Credits: 3},
	{CourseID: 4041, Title: "Macroeconomics", Credits: 3},
	{CourseID: 1045, Title: "Calculus", Credits: 4},
	{CourseID: 3141, Title: "Trigonometry", Credits: 4},
	{CourseID: 2021, Title: "Composition", Credits: 3},
	{CourseID: 2042, Title: "Literature", Credits: 4},
}

var sampleEnrollments = []enrollmentRow{
	{0, 1050, "A"},
	{0, 4022, "C"},
	{0, 4041, "B"},
	{1, 1045, "B"},
	{1, 3141, "F"},
	{1, 2021, "F"},
	{2, 1050, ""},
	{3, 1050, ""},
	{3, 4022, "F"},
	{4, 4041, "C"},
	{5, 1045, ""},
	{6, 3141, "A"},
}

// Summary reports what Run inserted
type Summary struct {
	Skipped     bool
	Students    []models.Student
	Courses     []models.Course
	Enrollments []models.Enrollment
}

// Run inserts the sample data unless any student already exists.
// Students and courses are committed first so their keys can be used by
// the enrollments.
func Run(ctx context.Context, repo repositories.Repository, logger *slog.Logger) (*Summary, error) {
	existing, err := countStudents(ctx, repo)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		logger.Info("Database already seeded", "students", existing)
		return &Summary{Skipped: true}, nil
	}

	students, err := buildStudents()
	if err != nil {
		return nil, err
	}
	courses := make([]models.Course, len(sampleCourses))
	copy(courses, sampleCourses)

	uow := repo.Begin(ctx)
	defer uow.Discard()

	for i := range students {
		if err := uow.Students().Add(&students[i]); err != nil {
			return nil, err
		}
	}
	for i := range courses {
		if err := uow.Courses().Add(&courses[i]); err != nil {
			return nil, err
		}
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed students and courses: %w", err)
	}

	enrollments, err := buildEnrollments(students)
	if err != nil {
		return nil, err
	}

	uow = repo.Begin(ctx)
	defer uow.Discard()

	for i := range enrollments {
		if err := uow.Enrollments().Add(&enrollments[i]); err != nil {
			return nil, err
		}
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed enrollments: %w", err)
	}

	logger.Info("Seeded sample data",
		"students", len(students),
		"courses", len(courses),
		"enrollments", len(enrollments),
	)

	return &Summary{Students: students, Courses: courses, Enrollments: enrollments}, nil
}

func countStudents(ctx context.Context, repo repositories.Repository) (int64, error) {
	uow := repo.Begin(ctx)
	defer uow.Discard()

	count, err := uow.Students().List(repositories.StudentQuery{}).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

func buildStudents() ([]models.Student, error) {
	students := make([]models.Student, 0, len(sampleStudents))
	for _, row := range sampleStudents {
		date, err := models.ParseDate(row.EnrollmentDate)
		if err != nil {
			return nil, fmt.Errorf("invalid sample date %q: %w", row.EnrollmentDate, err)
		}
		students = append(students, models.Student{
			LastName:       row.LastName,
			FirstMidName:   row.FirstMidName,
			EnrollmentDate: date,
		})
	}
	return students, nil
}

func buildEnrollments(students []models.Student) ([]models.Enrollment, error) {
	enrollments := make([]models.Enrollment, 0, len(sampleEnrollments))
	for _, row := range sampleEnrollments {
		grade, err := models.ParseGrade(row.Grade)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, models.Enrollment{
			StudentID: students[row.Student].ID,
			CourseID:  row.CourseID,
			Grade:     grade,
		})
	}
	return enrollments, nil
}
