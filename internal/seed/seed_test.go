package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/SAP-F-2025/university-service/internal/models"
	"github.com/SAP-F-2025/university-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/university-service/internal/testutil"
)

func TestRun(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := testutil.NewTestDB(t)
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db, Logger: logger})
	ctx := context.Background()

	summary, err := Run(ctx, repo, logger)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Skipped {
		t.Fatal("Run() skipped an empty database")
	}
	if len(summary.Students) != len(sampleStudents) {
		t.Errorf("seeded %d students, want %d", len(summary.Students), len(sampleStudents))
	}

	var enrollments []models.Enrollment
	if err := db.Find(&enrollments).Error; err != nil {
		t.Fatalf("failed to load enrollments: %v", err)
	}
	if len(enrollments) != len(sampleEnrollments) {
		t.Fatalf("stored %d enrollments, want %d", len(enrollments), len(sampleEnrollments))
	}

	ungraded := 0
	for _, e := range enrollments {
		if e.StudentID == 0 {
			t.Errorf("enrollment %d has no student", e.EnrollmentID)
		}
		if e.Grade == nil {
			ungraded++
		}
	}
	if ungraded != 3 {
		t.Errorf("ungraded enrollments = %d, want 3", ungraded)
	}

	again, err := Run(ctx, repo, logger)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if !again.Skipped {
		t.Error("second Run() did not skip a seeded database")
	}

	var students int64
	db.Model(&models.Student{}).Count(&students)
	if students != int64(len(sampleStudents)) {
		t.Errorf("students after second run = %d, want %d", students, len(sampleStudents))
	}
}
