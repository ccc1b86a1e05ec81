package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/university-service/internal/events"
	"github.com/SAP-F-2025/university-service/internal/models"
	"github.com/SAP-F-2025/university-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/university-service/internal/services"
	"github.com/SAP-F-2025/university-service/internal/testutil"
	"github.com/SAP-F-2025/university-service/internal/utils"
	"github.com/SAP-F-2025/university-service/internal/validator"
)

func setupRouter(t *testing.T, checks ...HealthCheck) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger := utils.NewSlogLogger(slogger)
	db := testutil.NewTestDB(t)
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db, Logger: slogger})

	manager := services.NewDefaultServiceManager(repo, slogger, validator.NewBusinessValidator(), events.NewMockEventPublisher(slogger), 3)
	if err := manager.Initialize(context.Background()); err != nil {
		t.Fatalf("failed to initialize services: %v", err)
	}

	router := gin.New()
	SetupMiddleware(router, logger)
	NewHandlerManager(manager, logger, checks...).SetupRoutes(router)
	return router, db
}

func doRequest(router *gin.Engine, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doJSON(router *gin.Engine, method, target string, payload interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(payload)
	return doRequest(router, method, target, bytes.NewReader(data), "application/json")
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode %q: %v", w.Body.String(), err)
	}
}

func seedEnrolled(t *testing.T, db *gorm.DB, studentID uint) {
	t.Helper()
	if err := db.Create(&models.Course{CourseID: 1050, Title: "Chemistry", Credits: 3}).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&models.Enrollment{StudentID: studentID, CourseID: 1050}).Error; err != nil {
		t.Fatal(err)
	}
}

func TestListStudentsSearchResetsPage(t *testing.T) {
	router, db := setupRouter(t)
	testutil.SeedStudents(t, db, "Smith", "Alexander", "Alonso", "Anand", "Barzdukas", "Li", "Norman")

	w := doRequest(router, http.MethodGet, "/api/v1/students?search_string=Smith&current_filter=Jones&page_number=3", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp services.StudentListResponse
	decode(t, w, &resp)
	if resp.Students.PageIndex != 1 || resp.Students.TotalCount != 1 || resp.CurrentFilter != "Smith" {
		t.Errorf("response = %+v", resp.Students)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestListStudentsPaging(t *testing.T) {
	router, db := setupRouter(t)
	testutil.SeedStudents(t, db, "Alexander", "Alonso", "Anand", "Barzdukas", "Li", "Justice", "Norman")

	tests := []struct {
		query     string
		wantItems int
		wantNext  bool
		wantPrev  bool
	}{
		{query: "page_number=1", wantItems: 3, wantNext: true},
		{query: "page_number=3", wantItems: 1, wantPrev: true},
		{query: "page_number=9", wantItems: 0, wantPrev: true},
		{query: "page_number=abc", wantItems: 3, wantNext: true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, "/api/v1/students?"+tt.query, nil, "")
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			var resp services.StudentListResponse
			decode(t, w, &resp)
			page := resp.Students
			if len(page.Items) != tt.wantItems || page.HasNextPage != tt.wantNext || page.HasPreviousPage != tt.wantPrev {
				t.Errorf("items=%d next=%v prev=%v", len(page.Items), page.HasNextPage, page.HasPreviousPage)
			}
			if page.TotalPages != 3 {
				t.Errorf("TotalPages = %d, want 3", page.TotalPages)
			}
		})
	}
}

func TestGetStudent(t *testing.T) {
	router, db := setupRouter(t)
	students := testutil.SeedStudents(t, db, "Alexander")
	seedEnrolled(t, db, students[0].ID)

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{name: "found", target: "/api/v1/students/1", want: http.StatusOK},
		{name: "unmatched", target: "/api/v1/students/999", want: http.StatusNotFound},
		{name: "malformed", target: "/api/v1/students/abc", want: http.StatusNotFound},
		{name: "edit form", target: "/api/v1/students/1/edit", want: http.StatusOK},
		{name: "edit unmatched", target: "/api/v1/students/999/edit", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, tt.target, nil, "")
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}

	w := doRequest(router, http.MethodGet, "/api/v1/students/1", nil, "")
	var student models.Student
	decode(t, w, &student)
	if len(student.Enrollments) != 1 || student.Enrollments[0].Course == nil {
		t.Errorf("enrollments not loaded: %+v", student.Enrollments)
	}
}

func TestCreateStudent(t *testing.T) {
	router, db := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/students", map[string]string{
		"last_name": "Alexander", "first_mid_name": "Carson", "enrollment_date": "2005-09-01",
	})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/api/v1/students" {
		t.Fatalf("status = %d location = %q", w.Code, w.Header().Get("Location"))
	}

	form := url.Values{"last_name": {"Alonso"}, "first_mid_name": {"Meredith"}, "enrollment_date": {"2002-09-01"}}
	w = doRequest(router, http.MethodPost, "/api/v1/students", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if w.Code != http.StatusSeeOther {
		t.Fatalf("form post status = %d, body %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.Student{}).Count(&count)
	if count != 2 {
		t.Errorf("students = %d, want 2", count)
	}

	w = doJSON(router, http.MethodPost, "/api/v1/students", map[string]string{
		"last_name": "Anand", "enrollment_date": "not a date",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid status = %d", w.Code)
	}
	var resp struct {
		Message string                      `json:"message"`
		Details []validator.ValidationError `json:"details"`
		Data    map[string]interface{}      `json:"data"`
	}
	decode(t, w, &resp)
	if len(resp.Details) != 2 || resp.Data["last_name"] != "Anand" {
		t.Errorf("response = %+v", resp)
	}
}

func TestUpdateStudent(t *testing.T) {
	router, db := setupRouter(t)
	students := testutil.SeedStudents(t, db, "Alexander", "Alonso")

	payload := map[string]string{"last_name": "Alexandra", "first_mid_name": "Carla", "enrollment_date": "2010-01-15"}

	w := doJSON(router, http.MethodPut, "/api/v1/students/1", payload)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var stored models.Student
	db.First(&stored, students[0].ID)
	if stored.LastName != "Alexandra" {
		t.Errorf("LastName = %q", stored.LastName)
	}

	// Record deleted in the meantime
	db.Delete(&models.Student{}, students[1].ID)
	w = doJSON(router, http.MethodPost, "/api/v1/students/2/edit", payload)
	if w.Code != http.StatusNotFound {
		t.Errorf("deleted record status = %d, want 404", w.Code)
	}
}

func TestDeleteStudentConstraintFailure(t *testing.T) {
	router, db := setupRouter(t)
	students := testutil.SeedStudents(t, db, "Alexander")
	seedEnrolled(t, db, students[0].ID)

	w := doRequest(router, http.MethodDelete, "/api/v1/students/1", nil, "")
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", w.Code)
	}
	location := w.Header().Get("Location")
	if location != "/api/v1/students/1/delete?save_changes_error=true" {
		t.Fatalf("Location = %q", location)
	}

	w = doRequest(router, http.MethodGet, location, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("confirm status = %d", w.Code)
	}
	var confirm services.StudentDeleteConfirmation
	decode(t, w, &confirm)
	if confirm.ErrorMessage != services.DeleteErrorMessage || confirm.Student.ID != students[0].ID {
		t.Errorf("confirmation = %+v", confirm)
	}

	var count int64
	db.Model(&models.Student{}).Count(&count)
	if count != 1 {
		t.Errorf("student removed despite enrollments")
	}
}

func TestDeleteStudent(t *testing.T) {
	router, db := setupRouter(t)
	testutil.SeedStudents(t, db, "Alexander")

	for _, target := range []string{"/api/v1/students/1", "/api/v1/students/1", "/api/v1/students/abc"} {
		w := doRequest(router, http.MethodDelete, target, nil, "")
		if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/api/v1/students" {
			t.Errorf("DELETE %s = %d %q", target, w.Code, w.Header().Get("Location"))
		}
	}

	w := doRequest(router, http.MethodGet, "/api/v1/students/1/delete", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("confirm after delete status = %d, want 404", w.Code)
	}
}

func TestEnrollmentAndCourseRoutes(t *testing.T) {
	router, db := setupRouter(t)
	testutil.SeedStudents(t, db, "Alexander")

	w := doJSON(router, http.MethodPost, "/api/v1/courses", map[string]interface{}{"course_id": 1050, "title": "Chemistry", "credits": 3})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("create course status = %d, body %s", w.Code, w.Body.String())
	}
	w = doJSON(router, http.MethodPost, "/api/v1/courses", map[string]interface{}{"course_id": 1050, "title": "Chemistry", "credits": 3})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate course status = %d, want 409", w.Code)
	}

	w = doJSON(router, http.MethodPost, "/api/v1/enrollments", map[string]interface{}{"student_id": 1, "course_id": 4041})
	if w.Code != http.StatusConflict {
		t.Fatalf("broken FK status = %d, want 409", w.Code)
	}
	var errResp ErrorResponse
	decode(t, w, &errResp)
	if errResp.Message != services.SaveChangesErrorMessage {
		t.Errorf("message = %q", errResp.Message)
	}

	w = doJSON(router, http.MethodPost, "/api/v1/enrollments", map[string]interface{}{"student_id": 1, "course_id": 1050})
	if w.Code != http.StatusCreated {
		t.Fatalf("enroll status = %d, body %s", w.Code, w.Body.String())
	}
	var enrollment models.Enrollment
	decode(t, w, &enrollment)

	w = doJSON(router, http.MethodPut, "/api/v1/enrollments/"+strconv.FormatUint(uint64(enrollment.EnrollmentID), 10)+"/grade", map[string]string{"grade": "A"})
	if w.Code != http.StatusOK {
		t.Fatalf("grade status = %d, body %s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodGet, "/api/v1/courses/1050", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get course status = %d", w.Code)
	}
	var course models.Course
	decode(t, w, &course)
	if len(course.Enrollments) != 1 || course.Enrollments[0].Grade == nil || *course.Enrollments[0].Grade != models.GradeA {
		t.Errorf("course enrollments = %+v", course.Enrollments)
	}

	w = doRequest(router, http.MethodDelete, "/api/v1/courses/1050", nil, "")
	if w.Header().Get("Location") != "/api/v1/courses/1050/delete?save_changes_error=true" {
		t.Errorf("delete enrolled course Location = %q", w.Header().Get("Location"))
	}
}

func TestEnrollmentDateStats(t *testing.T) {
	router, db := setupRouter(t)
	testutil.SeedStudents(t, db, "Alexander", "Alonso")

	w := doRequest(router, http.MethodGet, "/api/v1/stats/enrollment-dates", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var groups []map[string]interface{}
	decode(t, w, &groups)
	if len(groups) != 2 || groups[0]["student_count"].(float64) != 1 {
		t.Errorf("groups = %v", groups)
	}
}

func TestRosterRoundTrip(t *testing.T) {
	router, db := setupRouter(t)
	testutil.SeedStudents(t, db, "Alexander", "Alonso")

	w := doRequest(router, http.MethodGet, "/api/v1/students/export", nil, "")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != xlsxContentType {
		t.Fatalf("export status = %d type = %q", w.Code, w.Header().Get("Content-Type"))
	}
	if _, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes())); err != nil {
		t.Fatalf("exported workbook unreadable: %v", err)
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetRow(sheet, "A1", &[]interface{}{"Last Name", "First Mid Name", "Enrollment Date"})
	_ = f.SetSheetRow(sheet, "A2", &[]interface{}{"Anand", "Arturo", "2003-09-01"})
	workbook, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("file", "students.xlsx")
	_, _ = part.Write(workbook.Bytes())
	_ = mw.Close()

	w = doRequest(router, http.MethodPost, "/api/v1/students/import", &body, mw.FormDataContentType())
	if w.Code != http.StatusCreated {
		t.Fatalf("import status = %d, body %s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodPost, "/api/v1/students/import", strings.NewReader("x"), "text/plain")
	if w.Code != http.StatusBadRequest {
		t.Errorf("import without file status = %d, want 400", w.Code)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		checks     []HealthCheck
		wantCode   int
		wantStatus string
	}{
		{
			name:       "healthy",
			checks:     []HealthCheck{{Name: "database", Check: func(context.Context) error { return nil }}},
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
		},
		{
			name: "cache down",
			checks: []HealthCheck{
				{Name: "database", Check: func(context.Context) error { return nil }},
				{Name: "redis", Optional: true, Check: func(context.Context) error { return errors.New("refused") }},
			},
			wantCode:   http.StatusOK,
			wantStatus: "degraded",
		},
		{
			name:       "database down",
			checks:     []HealthCheck{{Name: "database", Check: func(context.Context) error { return errors.New("refused") }}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupRouter(t, tt.checks...)
			w := doRequest(router, http.MethodGet, "/health", nil, "")
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
			var resp map[string]interface{}
			decode(t, w, &resp)
			if resp["status"] != tt.wantStatus {
				t.Errorf("status field = %v, want %s", resp["status"], tt.wantStatus)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodOptions, "/api/v1/students", nil, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
	// Browsers reject credentials combined with a wildcard origin
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Errorf("Allow-Credentials must not be sent with a wildcard origin, got %q", got)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition") {
		t.Error("Content-Disposition must be exposed for roster downloads")
	}
}
