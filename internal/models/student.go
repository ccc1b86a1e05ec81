package models

import (
	"strings"

	"gorm.io/datatypes"
)

type Student struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	LastName       string         `json:"last_name" gorm:"not null;size:50;index"`
	FirstMidName   string         `json:"first_mid_name" gorm:"not null;size:50"`
	EnrollmentDate datatypes.Date `json:"enrollment_date" gorm:"not null"`

	// Relations
	Enrollments []Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Student) TableName() string {
	return "Student"
}

// FullName returns "LastName, FirstMidName" as shown in rosters
func (s Student) FullName() string {
	return strings.TrimSpace(s.LastName + ", " + s.FirstMidName)
}
