package models

type Enrollment struct {
	EnrollmentID uint   `json:"enrollment_id" gorm:"primaryKey"`
	CourseID     uint   `json:"course_id" gorm:"not null;index"`
	StudentID    uint   `json:"student_id" gorm:"not null;index"`
	Grade        *Grade `json:"grade" gorm:"size:1"` // nil until graded

	// Relations
	Course  *Course  `json:"course,omitempty" gorm:"foreignKey:CourseID;references:CourseID;constraint:-"`
	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

func (Enrollment) TableName() string {
	return "Enrollment"
}

// All returns every persisted model in migration order
func All() []interface{} {
	return []interface{}{&Student{}, &Course{}, &Enrollment{}}
}
