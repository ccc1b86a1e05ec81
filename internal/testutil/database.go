// Package testutil provides an in-memory database for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/SAP-F-2025/university-service/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// NewTestDB opens a private in-memory SQLite database with foreign keys
// enforced and the schema migrated. It is closed when the test ends.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// SeedStudents inserts students with the given last names and returns them
// in insertion order.
func SeedStudents(t testing.TB, db *gorm.DB, lastNames ...string) []models.Student {
	t.Helper()

	students := make([]models.Student, 0, len(lastNames))
	for i, name := range lastNames {
		date, _ := models.ParseDate(fmt.Sprintf("20%02d-09-01", i%20))
		s := models.Student{LastName: name, FirstMidName: fmt.Sprintf("First%d", i), EnrollmentDate: date}
		if err := db.Create(&s).Error; err != nil {
			t.Fatalf("failed to seed student %q: %v", name, err)
		}
		students = append(students, s)
	}
	return students
}
