package events

import (
	"context"
	"time"
)

// Event types published by the assessment lifecycle.
const (
	EventTemplateCreated     = "template.created"
	EventAssignmentCreated   = "assignment.created"
	EventAssignmentCompleted = "assignment.completed"
)

// Event is the envelope every lifecycle notification travels in.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// TemplateCreatedEvent is emitted after the full template (header,
// options, questions) has been persisted.
type TemplateCreatedEvent struct {
	TemplateID    uint   `json:"template_id"`
	Name          string `json:"name"`
	DoctorID      string `json:"doctor_id"`
	QuestionCount int    `json:"question_count"`
	OptionCount   int    `json:"option_count"`
}

// AssignmentCreatedEvent is emitted when a template is issued to a patient.
type AssignmentCreatedEvent struct {
	AssignmentID uint   `json:"assignment_id"`
	TemplateID   uint   `json:"template_id"`
	PatientID    uint   `json:"patient_id"`
	DoctorID     string `json:"doctor_id"`
}

// AssignmentCompletedEvent is emitted after a result has been recorded and
// the assignment flipped to completed.
type AssignmentCompletedEvent struct {
	AssignmentID uint `json:"assignment_id"`
	TemplateID   uint `json:"template_id"`
	PatientID    uint `json:"patient_id"`
	TotalScore   int  `json:"total_score"`
}

// EventPublisher abstracts the outbound notification channel.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
