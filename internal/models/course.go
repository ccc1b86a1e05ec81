package models

// Course keys are assigned by the caller, never generated by the database.
type Course struct {
	CourseID uint   `json:"course_id" gorm:"primaryKey;autoIncrement:false"`
	Title    string `json:"title" gorm:"not null;size:50"`
	Credits  int    `json:"credits" gorm:"not null;default:0;check:credits >= 0"`

	// Relations
	Enrollments []Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:CourseID;references:CourseID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Course) TableName() string {
	return "Course"
}
