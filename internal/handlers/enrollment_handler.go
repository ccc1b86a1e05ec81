package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/university-service/internal/services"
	"github.com/SAP-F-2025/university-service/internal/utils"
)

type EnrollmentHandler struct {
	BaseHandler
	service services.EnrollmentService
}

func NewEnrollmentHandler(service services.EnrollmentService, logger utils.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Enroll enrolls a student in a course
// @Summary Create enrollment
// @Tags enrollments
// @Accept json
// @Produce json
// @Param enrollment body models.EnrollmentCreateRequest true "Enrollment data"
// @Success 201 {object} models.Enrollment
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Unknown student or course"
// @Router /enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req services.EnrollmentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Enrolling student", "student_id", req.StudentID, "course_id", req.CourseID)

	enrollment, err := h.service.Enroll(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, "Enrollment", req)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

// AssignGrade sets or clears the grade of an enrollment
// @Summary Grade enrollment
// @Tags enrollments
// @Accept json
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param grade body models.GradeRequest true "Grade, empty to clear"
// @Success 200 {object} models.Enrollment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /enrollments/{id}/grade [put]
func (h *EnrollmentHandler) AssignGrade(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id", "Enrollment")
	if !ok {
		return
	}

	var req services.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	enrollment, err := h.service.AssignGrade(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err, "Enrollment", enrollment)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

// ListUngraded pages through the enrollments of a course without a grade
// @Summary List ungraded enrollments
// @Tags enrollments
// @Produce json
// @Param id path int true "Course number"
// @Param page_number query int false "1-based page number"
// @Success 200 {object} pagination.Page[models.Enrollment]
// @Router /courses/{id}/ungraded [get]
func (h *EnrollmentHandler) ListUngraded(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id", "Course")
	if !ok {
		return
	}

	pageNumber, err := strconv.Atoi(c.DefaultQuery("page_number", "1"))
	if err != nil {
		pageNumber = 1
	}

	page, err := h.service.ListUngraded(c.Request.Context(), id, pageNumber)
	if err != nil {
		h.handleServiceError(c, err, "Course", nil)
		return
	}

	c.JSON(http.StatusOK, page)
}
