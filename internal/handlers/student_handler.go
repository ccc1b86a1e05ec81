package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/university-service/internal/services"
	"github.com/SAP-F-2025/university-service/internal/utils"
)

type StudentHandler struct {
	BaseHandler
	service services.StudentService
}

func NewStudentHandler(service services.StudentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

const studentsPath = apiPrefix + "/students"

// ListStudents returns one page of students
// @Summary List students
// @Description Paginated student list with sorting and a name search. A new search string starts again from page 1.
// @Tags students
// @Produce json
// @Param sort_order query string false "Sort: '' (last name), name_desc, Date, date_desc"
// @Param current_filter query string false "Search string of the previous request"
// @Param search_string query string false "Case-insensitive name search"
// @Param page_number query int false "1-based page number"
// @Success 200 {object} services.StudentListResponse
// @Failure 500 {object} ErrorResponse
// @Router /students [get]
func (h *StudentHandler) ListStudents(c *gin.Context) {
	var params services.StudentListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		// A malformed page number falls back to the first page
		params.PageNumber = 1
		params.SortOrder = c.Query("sort_order")
		params.CurrentFilter = c.Query("current_filter")
		params.SearchString = c.Query("search_string")
	}

	h.LogRequest(c, "Listing students", "search", params.SearchString, "page", params.PageNumber)

	resp, err := h.service.List(c.Request.Context(), params)
	if err != nil {
		h.handleServiceError(c, err, "Student", nil)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetStudent returns a student with enrollments and their courses
// @Summary Get student details
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} models.Student
// @Failure 404 {object} ErrorResponse
// @Router /students/{id} [get]
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id", "Student")
	if !ok {
		return
	}

	h.LogRequest(c, "Getting student", "student_id", id)

	student, err := h.service.GetDetail(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "Student", nil)
		return
	}

	c.JSON(http.StatusOK, student)
}

// CreateStudent creates a student and redirects to the list
// @Summary Create student
// @Tags students
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param student body models.StudentRequest true "Student data"
// @Success 303 "Redirect to the student list"
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /students [post]
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req services.StudentRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	student, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, "Student", student)
		return
	}

	h.redirect(c, studentsPath)
}

// EditStudent returns the student to edit
// @Summary Get student for editing
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} models.Student
// @Failure 404 {object} ErrorResponse
// @Router /students/{id}/edit [get]
func (h *StudentHandler) EditStudent(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id", "Student")
	if !ok {
		return
	}

	student, err := h.service.GetForEdit(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "Student", nil)
		return
	}

	c.JSON(http.StatusOK, student)
}

// UpdateStudent applies last name, first/middle name and enrollment date
// @Summary Update student
// @Tags students
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "Student ID"
// @Param student body models.StudentRequest true "Student data"
// @Success 303 "Redirect to the student list"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /students/{id} [put]
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id", "Student")
	if !ok {
		return
	}

	var req services.StudentRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating student", "student_id", id)

	student, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err, "Student", student)
		return
	}

	h.redirect(c, studentsPath)
}

// ConfirmDeleteStudent returns the student to delete and, after a failed
// delete, the error banner
// @Summary Get student for deletion
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Param save_changes_error query bool false "Previous delete failed"
// @Success 200 {object} services.StudentDeleteConfirmation
// @Failure 404 {object} ErrorResponse
// @Router /students/{id}/delete [get]
func (h *StudentHandler) ConfirmDeleteStudent(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id", "Student")
	if !ok {
		return
	}

	saveChangesError, _ := strconv.ParseBool(c.Query("save_changes_error"))

	confirmation, err := h.service.GetForDelete(c.Request.Context(), id, saveChangesError)
	if err != nil {
		h.handleServiceError(c, err, "Student", nil)
		return
	}

	c.JSON(http.StatusOK, confirmation)
}

// DeleteStudent deletes a student. A failed delete redirects back to the
// confirmation with save_changes_error=true.
// @Summary Delete student
// @Tags students
// @Param id path int true "Student ID"
// @Success 303 "Redirect to the student list"
// @Failure 303 "Redirect to the delete confirmation"
// @Router /students/{id} [delete]
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		// Nothing can match, treat as already deleted
		h.redirect(c, studentsPath)
		return
	}

	h.LogRequest(c, "Deleting student", "student_id", id)

	if err := h.service.Delete(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrSaveConflict) {
			h.redirect(c, fmt.Sprintf("%s/%d/delete?save_changes_error=true", studentsPath, id))
			return
		}
		h.handleServiceError(c, err, "Student", nil)
		return
	}

	h.redirect(c, studentsPath)
}

// EnrollmentDateStats groups students by enrollment date
// @Summary Enrollment date statistics
// @Tags stats
// @Produce json
// @Success 200 {array} repositories.EnrollmentDateGroup
// @Failure 500 {object} ErrorResponse
// @Router /stats/enrollment-dates [get]
func (h *StudentHandler) EnrollmentDateStats(c *gin.Context) {
	groups, err := h.service.EnrollmentDateGroups(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "Statistics", nil)
		return
	}

	c.JSON(http.StatusOK, groups)
}
