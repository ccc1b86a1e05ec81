package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/university-service/internal/services"
	"github.com/SAP-F-2025/university-service/internal/utils"
)

const apiPrefix = "/api/v1"

// ErrorResponse is the body of every failed request. Data echoes the
// submitted entity so a client can re-render its form.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler holds what every handler shares
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// Logger returns the request-scoped logger
func (h *BaseHandler) Logger(c *gin.Context) utils.Logger {
	return utils.GetLogger(c, h.logger)
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	h.Logger(c).Debug(msg, args...)
}

// parseIDParam reads a numeric path parameter. A malformed id cannot
// match a record, so it is answered with 404.
func (h *BaseHandler) parseIDParam(c *gin.Context, param, resource string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: resource + " not found",
		})
		return 0, false
	}
	return uint(id), true
}

// redirect answers a successful form action with 303 See Other
func (h *BaseHandler) redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// handleServiceError maps service errors to responses. data is echoed
// back on validation and save failures.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error, resource string, data interface{}) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
			Data:    data,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: resource + " not found",
		})
	case errors.Is(err, services.ErrSaveConflict):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: services.SaveChangesErrorMessage,
			Data:    data,
		})
	default:
		h.Logger(c).Error("Unhandled service error", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
