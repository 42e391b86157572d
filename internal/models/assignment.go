package models

import (
	"time"
)

type AssignmentStatus string

const (
	AssignmentAssigned  AssignmentStatus = "assigned"
	AssignmentCompleted AssignmentStatus = "completed"
)

// Assignment is one instance of a template issued to one patient. At most
// one assignment per (template, patient) may be in "assigned" state; the
// partial unique index backing that lives in pkg.InitDatabase.
type Assignment struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	TemplateID uint             `json:"template_id" gorm:"not null;index"`
	PatientID  uint             `json:"patient_id" gorm:"not null;index"`
	Status     AssignmentStatus `json:"status" gorm:"default:assigned;index"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`

	// Relations
	Template Template `json:"template" gorm:"foreignKey:TemplateID"`
	Patient  Patient  `json:"patient" gorm:"foreignKey:PatientID"`
	Results  []Result `json:"results" gorm:"foreignKey:AssignmentID"`

	// Computed (not stored); resolved template name for list views
	TemplateName string `json:"template_name" gorm:"-"`
}

func (Assignment) TableName() string {
	return "assessment_assignments"
}
