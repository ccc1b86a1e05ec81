package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/university-service/internal/services"
	"github.com/SAP-F-2025/university-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxRosterSize bounds uploaded workbooks
const maxRosterSize = 10 << 20

type RosterHandler struct {
	BaseHandler
	service services.RosterService
}

func NewRosterHandler(service services.RosterService, logger utils.Logger) *RosterHandler {
	return &RosterHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ExportStudents downloads the filtered student list as a spreadsheet
// @Summary Export students
// @Tags students
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param sort_order query string false "Sort key"
// @Param search_string query string false "Name search"
// @Success 200 {file} file
// @Router /students/export [get]
func (h *RosterHandler) ExportStudents(c *gin.Context) {
	params := services.RosterExportParams{
		SortOrder:    c.Query("sort_order"),
		SearchString: c.Query("search_string"),
	}

	// Buffered so a failure can still be answered with a JSON error
	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), params, &buf); err != nil {
		h.handleServiceError(c, err, "Student", nil)
		return
	}

	filename := fmt.Sprintf("students-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ImportStudents adds the students of an uploaded spreadsheet
// @Summary Import students
// @Description First sheet, header row skipped, columns: last name, first/middle name, enrollment date (YYYY-MM-DD text or a date cell). Nothing is saved when any row is invalid.
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "xlsx workbook"
// @Success 201 {object} services.RosterImportResult
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /students/import [post]
func (h *RosterHandler) ImportStudents(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRosterSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "File is required",
			Details: err.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unable to read file",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing roster", "filename", fileHeader.Filename, "size", fileHeader.Size)

	result, err := h.service.Import(c.Request.Context(), file)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, result)
	case errors.Is(err, services.ErrInvalidRoster):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Roster contains invalid rows",
			Details: result.RowErrors,
		})
	case errors.Is(err, services.ErrEmptyRoster):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Roster contains no data rows",
		})
	case errors.Is(err, services.ErrInvalidWorkbook):
		h.Logger(c).Warn("Roster import failed", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid spreadsheet",
		})
	default:
		h.handleServiceError(c, err, "Student", nil)
	}
}
