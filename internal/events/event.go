package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "university-service"
	EventVersion = "1.0"
	DefaultTopic = "university.events"
)

type EventType string

const (
	StudentCreated    EventType = "student.created"
	StudentUpdated    EventType = "student.updated"
	StudentDeleted    EventType = "student.deleted"
	CourseCreated     EventType = "course.created"
	CourseUpdated     EventType = "course.updated"
	CourseDeleted     EventType = "course.deleted"
	EnrollmentCreated EventType = "enrollment.created"
	EnrollmentGraded  EventType = "enrollment.graded"
)

// Event is the envelope of every domain event
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

func NewEvent(eventType EventType, data interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}
