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

type CourseHandler struct {
	BaseHandler
	service services.CourseService
}

func NewCourseHandler(service services.CourseService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

const coursesPath = apiPrefix + "/courses"

// ListCourses returns one page of courses
// @Summary List courses
// @Tags courses
// @Produce json
// @Param sort_order query string false "Sort: '' (title), title_desc, Credits, credits_desc"
// @Param search_string query string false "Case-insensitive title search"
// @Param page_number query int false "1-based page number"
// @Success 200 {object} pagination.Page[models.Course]
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	var params services.CourseListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		params = services.CourseListParams{
			SortOrder:    c.Query("sort_order"),
			SearchString: c.Query("search_string"),
			PageNumber:   1,
		}
	}

	page, err := h.service.List(c.Request.Context(), params)
	if err != nil {
		h.handleServiceError(c, err, "Course", nil)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetCourse returns a course with its enrolled students
// @Summary Get course
// @Tags courses
// @Produce json
// @Param id path int true "Course number"
// @Success 200 {object} models.Course
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id", "Course")
	if !ok {
		return
	}

	course, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "Course", nil)
		return
	}

	c.JSON(http.StatusOK, course)
}

// CreateCourse creates a course under a caller-assigned number
// @Summary Create course
// @Tags courses
// @Accept json
// @Param course body models.CourseCreateRequest true "Course data"
// @Success 303 "Redirect to the course list"
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Duplicate course number"
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req services.CourseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	course, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, "Course", course)
		return
	}

	h.redirect(c, coursesPath)
}

// UpdateCourse changes title and credits
// @Summary Update course
// @Tags courses
// @Accept json
// @Param id path int true "Course number"
// @Param course body models.CourseUpdateRequest true "Course data"
// @Success 303 "Redirect to the course list"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id", "Course")
	if !ok {
		return
	}

	var req services.CourseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	course, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err, "Course", course)
		return
	}

	h.redirect(c, coursesPath)
}

// ConfirmDeleteCourse
// @Summary Get course for deletion
// @Tags courses
// @Produce json
// @Param id path int true "Course number"
// @Param save_changes_error query bool false "Previous delete failed"
// @Success 200 {object} services.CourseDeleteConfirmation
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/delete [get]
func (h *CourseHandler) ConfirmDeleteCourse(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id", "Course")
	if !ok {
		return
	}

	saveChangesError, _ := strconv.ParseBool(c.Query("save_changes_error"))

	confirmation, err := h.service.GetForDelete(c.Request.Context(), id, saveChangesError)
	if err != nil {
		h.handleServiceError(c, err, "Course", nil)
		return
	}

	c.JSON(http.StatusOK, confirmation)
}

// DeleteCourse
// @Summary Delete course
// @Tags courses
// @Param id path int true "Course number"
// @Success 303 "Redirect to the course list, or to the confirmation when enrollments block the delete"
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.redirect(c, coursesPath)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrSaveConflict) {
			h.redirect(c, fmt.Sprintf("%s/%d/delete?save_changes_error=true", coursesPath, id))
			return
		}
		h.handleServiceError(c, err, "Course", nil)
		return
	}

	h.redirect(c, coursesPath)
}
