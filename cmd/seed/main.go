// Command seed fills an empty database with the Contoso University sample
// data and prints what was inserted.
package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/SAP-F-2025/university-service/internal/config"
	"github.com/SAP-F-2025/university-service/internal/models"
	"github.com/SAP-F-2025/university-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/university-service/internal/seed"
	"github.com/SAP-F-2025/university-service/internal/utils"
	"github.com/SAP-F-2025/university-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := utils.NewJSONLogger(cfg.LogLevel)

	db, err := pkg.InitDatabase(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db, Logger: logger})
	defer repo.Close()

	summary, err := seed.Run(context.Background(), repo, logger)
	if err != nil {
		color.Red("Seeding failed: %v", err)
		os.Exit(1)
	}

	if summary.Skipped {
		color.Yellow("Database already contains students, nothing to do.")
		return
	}

	color.Cyan("\n=== Students ===")
	printStudents(summary.Students)

	color.Cyan("\n=== Courses ===")
	printCourses(summary.Courses)

	color.Cyan("\n=== Enrollments ===")
	printEnrollments(summary.Enrollments)

	color.Green("\nSeeded %d students, %d courses and %d enrollments.",
		len(summary.Students), len(summary.Courses), len(summary.Enrollments))
}

func printStudents(students []models.Student) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Last Name", "First Mid Name", "Enrollment Date"})
	for _, s := range students {
		table.Append([]string{
			strconv.FormatUint(uint64(s.ID), 10),
			s.LastName,
			s.FirstMidName,
			models.FormatDate(s.EnrollmentDate),
		})
	}
	table.Render()
}

func printCourses(courses []models.Course) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Number", "Title", "Credits"})
	for _, c := range courses {
		table.Append([]string{
			strconv.FormatUint(uint64(c.CourseID), 10),
			c.Title,
			strconv.Itoa(c.Credits),
		})
	}
	table.Render()
}

func printEnrollments(enrollments []models.Enrollment) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Student", "Course", "Grade"})
	for _, e := range enrollments {
		grade := "No grade"
		if e.Grade != nil {
			grade = e.Grade.String()
		}
		table.Append([]string{
			strconv.FormatUint(uint64(e.EnrollmentID), 10),
			strconv.FormatUint(uint64(e.StudentID), 10),
			strconv.FormatUint(uint64(e.CourseID), 10),
			grade,
		})
	}
	table.Render()
}
