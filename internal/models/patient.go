package models

import (
	"time"

	"gorm.io/gorm"
)

type AlertSeverity string

const (
	SeverityRed    AlertSeverity = "Red"
	SeverityOrange AlertSeverity = "Orange"
	SeverityYellow AlertSeverity = "Yellow"
)

// PatientStatus is the badge derived from open alert severities.
type PatientStatus string

const (
	PatientCritical PatientStatus = "Critical"
	PatientWatch    PatientStatus = "Watch"
	PatientStable   PatientStatus = "Stable"
)

// Patient is the clinic-side record of a patient; UserID links it to the
// identity collaborator's account.
type Patient struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"uniqueIndex;not null;size:255"`
	Name   string `json:"name" gorm:"not null;size:100;index"`
	Gender string `json:"gender" gorm:"size:20"`
	Age    int    `json:"age"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Alerts []Alert `json:"alerts" gorm:"foreignKey:PatientID"`

	// Computed from Alerts (not stored)
	Status PatientStatus `json:"status" gorm:"-"`
}

type Alert struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	PatientID uint          `json:"patient_id" gorm:"not null;index"`
	Severity  AlertSeverity `json:"severity" gorm:"not null;size:20"`
	Message   string        `json:"message" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
}

// PatientRecord keeps a patient's clinical notes and treatment plan; one
// row per patient, written through an existence-checked upsert.
type PatientRecord struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	PatientID     uint   `json:"patient_id" gorm:"uniqueIndex;not null"`
	DoctorID      string `json:"doctor_id" gorm:"not null;size:255"`
	Notes         string `json:"notes" gorm:"type:text"`
	TreatmentPlan string `json:"treatment_plan" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MoodLog struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	PatientID uint   `json:"patient_id" gorm:"not null;index"`
	MoodScore int    `json:"mood_score" gorm:"not null" validate:"min=1,max=5"`
	Note      string `json:"note" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
}

// StatusFromAlerts derives the badge the patient list renders.
func StatusFromAlerts(alerts []Alert) PatientStatus {
	status := PatientStable
	for _, a := range alerts {
		switch a.Severity {
		case SeverityRed:
			return PatientCritical
		case SeverityOrange:
			status = PatientWatch
		}
	}
	return status
}

func (Patient) TableName() string {
	return "patients"
}

func (Alert) TableName() string {
	return "patient_alerts"
}

func (PatientRecord) TableName() string {
	return "patient_records"
}

func (MoodLog) TableName() string {
	return "mood_logs"
}
