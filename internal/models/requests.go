package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date
func ParseDate(s string) (datatypes.Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(t), nil
}

// FormatDate renders a calendar date as YYYY-MM-DD
func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}

type StudentRequest struct {
	LastName       string `json:"last_name" form:"last_name" validate:"required,person_name"`
	FirstMidName   string `json:"first_mid_name" form:"first_mid_name" validate:"required,person_name"`
	EnrollmentDate string `json:"enrollment_date" form:"enrollment_date" validate:"required,calendar_date"`
}

// Student converts the request into an entity. An unparsable date
// leaves EnrollmentDate zero; validation reports it separately.
func (r StudentRequest) Student() Student {
	date, _ := ParseDate(r.EnrollmentDate)
	return Student{
		LastName:       strings.TrimSpace(r.LastName),
		FirstMidName:   strings.TrimSpace(r.FirstMidName),
		EnrollmentDate: date,
	}
}

type CourseCreateRequest struct {
	CourseID uint   `json:"course_id" validate:"required"`
	Title    string `json:"title" validate:"required,course_title"`
	Credits  int    `json:"credits" validate:"course_credits"`
}

func (r CourseCreateRequest) Course() Course {
	return Course{
		CourseID: r.CourseID,
		Title:    strings.TrimSpace(r.Title),
		Credits:  r.Credits,
	}
}

type CourseUpdateRequest struct {
	Title   string `json:"title" validate:"required,course_title"`
	Credits int    `json:"credits" validate:"course_credits"`
}

func (r CourseUpdateRequest) Course() Course {
	return Course{
		Title:   strings.TrimSpace(r.Title),
		Credits: r.Credits,
	}
}

type EnrollmentCreateRequest struct {
	StudentID uint   `json:"student_id" validate:"required"`
	CourseID  uint   `json:"course_id" validate:"required"`
	Grade     string `json:"grade" validate:"omitempty,grade_letter"`
}

type GradeRequest struct {
	Grade string `json:"grade" validate:"omitempty,grade_letter"`
}
