package repositories

import (
	"time"

	"github.com/CareScope-Clinic/assessment-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type TemplateFilters struct {
	DoctorID  *string    `json:"doctor_id"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortBy    string     `json:"sort_by"`    // "created_at", "name"
	SortOrder string     `json:"sort_order"` // "asc", "desc"
}

type AssignmentFilters struct {
	Status     *models.AssignmentStatus `json:"status"`
	TemplateID *uint                    `json:"template_id"`
	PatientID  *uint                    `json:"patient_id"`
	Limit      int                      `json:"limit"`
	Offset     int                      `json:"offset"`
}

type PatientFilters struct {
	Query  string `json:"query"` // name search
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type TemplateStats struct {
	TotalAssignments     int     `json:"total_assignments"`
	CompletedAssignments int     `json:"completed_assignments"`
	AverageScore         float64 `json:"average_score"`
	QuestionCount        int     `json:"question_count"`
	OptionCount          int     `json:"option_count"`
}

type DoctorStats struct {
	TotalTemplates   int `json:"total_templates"`
	TotalAssignments int `json:"total_assignments"`
	PendingResults   int `json:"pending_results"`
}
