package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/university-service/internal/services"
	"github.com/SAP-F-2025/university-service/internal/utils"
)

const serviceName = "university-service"

// HealthCheck is one dependency checked by /health
type HealthCheck struct {
	Name string
	// Optional checks only degrade the status
	Optional bool
	Check    func(ctx context.Context) error
}

type HandlerManager struct {
	studentHandler    *StudentHandler
	courseHandler     *CourseHandler
	enrollmentHandler *EnrollmentHandler
	rosterHandler     *RosterHandler
	healthChecks      []HealthCheck
	logger            utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	healthChecks ...HealthCheck,
) *HandlerManager {
	return &HandlerManager{
		studentHandler:    NewStudentHandler(serviceManager.Student(), logger),
		courseHandler:     NewCourseHandler(serviceManager.Course(), logger),
		enrollmentHandler: NewEnrollmentHandler(serviceManager.Enrollment(), logger),
		rosterHandler:     NewRosterHandler(serviceManager.Roster(), logger),
		healthChecks:      healthChecks,
		logger:            logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group(apiPrefix)
	{
		// Student routes. Form posts to /edit and /delete mirror PUT and DELETE.
		students := v1.Group("/students")
		{
			students.GET("", hm.studentHandler.ListStudents)
			students.POST("", hm.studentHandler.CreateStudent)
			students.GET("/export", hm.rosterHandler.ExportStudents)
			students.POST("/import", hm.rosterHandler.ImportStudents)
			students.GET("/:id", hm.studentHandler.GetStudent)
			students.GET("/:id/edit", hm.studentHandler.EditStudent)
			students.PUT("/:id", hm.studentHandler.UpdateStudent)
			students.POST("/:id/edit", hm.studentHandler.UpdateStudent)
			students.GET("/:id/delete", hm.studentHandler.ConfirmDeleteStudent)
			students.DELETE("/:id", hm.studentHandler.DeleteStudent)
			students.POST("/:id/delete", hm.studentHandler.DeleteStudent)
		}

		// Course routes
		courses := v1.Group("/courses")
		{
			courses.GET("", hm.courseHandler.ListCourses)
			courses.POST("", hm.courseHandler.CreateCourse)
			courses.GET("/:id", hm.courseHandler.GetCourse)
			courses.PUT("/:id", hm.courseHandler.UpdateCourse)
			courses.GET("/:id/delete", hm.courseHandler.ConfirmDeleteCourse)
			courses.DELETE("/:id", hm.courseHandler.DeleteCourse)
			courses.POST("/:id/delete", hm.courseHandler.DeleteCourse)
			courses.GET("/:id/ungraded", hm.enrollmentHandler.ListUngraded)
		}

		// Enrollment routes
		enrollments := v1.Group("/enrollments")
		{
			enrollments.POST("", hm.enrollmentHandler.Enroll)
			enrollments.PUT("/:id/grade", hm.enrollmentHandler.AssignGrade)
		}

		// Statistics
		v1.GET("/stats/enrollment-dates", hm.studentHandler.EnrollmentDateStats)
	}

	// Health check endpoint
	router.GET("/health", hm.Health)
}

// Health checks every registered dependency
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (hm *HandlerManager) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := "healthy"
	code := http.StatusOK
	checks := make(map[string]string, len(hm.healthChecks))

	for _, hc := range hm.healthChecks {
		if err := hc.Check(ctx); err != nil {
			checks[hc.Name] = err.Error()
			utils.GetLogger(c, hm.logger).Warn("Health check failed", "dependency", hc.Name, "error", err)
			if hc.Optional {
				if status == "healthy" {
					status = "degraded"
				}
				continue
			}
			status = "unhealthy"
			code = http.StatusServiceUnavailable
			continue
		}
		checks[hc.Name] = "ok"
	}

	c.JSON(code, gin.H{
		"status":    status,
		"service":   serviceName,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
