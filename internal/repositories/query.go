package repositories

// Include names a related collection to load eagerly
type Include string

const (
	IncludeEnrollments        Include = "Enrollments"
	IncludeEnrollmentsCourse  Include = "Enrollments.Course"
	IncludeEnrollmentsStudent Include = "Enrollments.Student"
	IncludeCourse             Include = "Course"
	IncludeStudent            Include = "Student"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Bindable field names, used both for sorting and for UpdateFields
const (
	FieldLastName       = "LastName"
	FieldFirstMidName   = "FirstMidName"
	FieldEnrollmentDate = "EnrollmentDate"
	FieldTitle          = "Title"
	FieldCredits        = "Credits"
	FieldGrade          = "Grade"
)

var (
	StudentEditableFields    = []string{FieldFirstMidName, FieldLastName, FieldEnrollmentDate}
	CourseEditableFields     = []string{FieldTitle, FieldCredits}
	EnrollmentEditableFields = []string{FieldGrade}
)

type StudentQuery struct {
	// Case-insensitive substring of last name or first/middle name
	Search        string
	SortField     string
	SortDirection SortDirection
	Includes      []Include
}

type CourseQuery struct {
	// Case-insensitive substring of the title
	Search        string
	SortField     string
	SortDirection SortDirection
	Includes      []Include
}

type EnrollmentQuery struct {
	StudentID     *uint
	CourseID      *uint
	Ungraded      bool
	SortField     string
	SortDirection SortDirection
	Includes      []Include
}
