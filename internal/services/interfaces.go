package services

import (
	"context"
	"time"

	"github.com/CareScope-Clinic/assessment-service/internal/models"
	"github.com/CareScope-Clinic/assessment-service/internal/repositories"
	"github.com/CareScope-Clinic/assessment-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateTemplateRequest = validator.TemplateCreateRequest
type AssignRequest = validator.AssignRequest
type SubmitCompletionRequest = validator.SubmitCompletionRequest
type RecordSaveRequest = validator.RecordSaveRequest
type MoodLogRequest = validator.MoodLogRequest

type TemplateResponse struct {
	*models.Template
	CanDelete bool `json:"can_delete"`
}

type TemplateListResponse struct {
	Templates []*TemplateResponse `json:"templates"`
	Total     int64               `json:"total"`
	Page      int                 `json:"page"`
	Size      int                 `json:"size"`
}

type AssignmentResponse struct {
	*models.Assignment
}

// AssignmentForTaking carries everything the patient-facing form needs:
// the assignment plus the template's questions and shared options.
type AssignmentForTaking struct {
	Assignment *models.Assignment        `json:"assignment"`
	Template   *models.Template          `json:"template"`
	Questions  []models.TemplateQuestion `json:"questions"`
	Options    []models.TemplateOption   `json:"options"`
}

type CompletionResponse struct {
	AssignmentID uint      `json:"assignment_id"`
	TotalScore   int       `json:"total_score"`
	CompletedAt  time.Time `json:"completed_at"`
}

// TemplateHistory is one template's chronological score series for a
// patient, ready for the charting collaborator.
type TemplateHistory struct {
	TemplateID   uint                `json:"template_id"`
	TemplateName string              `json:"template_name"`
	Points       []models.ScorePoint `json:"points"`
}

type PatientResponse struct {
	*models.Patient
}

type PatientListResponse struct {
	Patients []*PatientResponse `json:"patients"`
	Total    int64              `json:"total"`
}

type RecordResponse struct {
	*models.PatientRecord
}

// ===== SERVICE INTERFACES =====

type TemplateService interface {
	// Core operations
	Create(ctx context.Context, req *CreateTemplateRequest, doctorID string) (*TemplateResponse, error)
	GetByID(ctx context.Context, id uint) (*TemplateResponse, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*TemplateResponse, error)
	Delete(ctx context.Context, id uint, userID string) error

	// List operations
	List(ctx context.Context, filters repositories.TemplateFilters) (*TemplateListResponse, error)
	ListAll(ctx context.Context) ([]*models.Template, error)

	// Statistics
	Stats(ctx context.Context, id uint) (*repositories.TemplateStats, error)
	DoctorStats(ctx context.Context, doctorID string) (*repositories.DoctorStats, error)
}

type AssignmentService interface {
	// Issuance
	Assign(ctx context.Context, req *AssignRequest, doctorID string) (*AssignmentResponse, error)

	// Retrieval
	GetByID(ctx context.Context, id uint) (*AssignmentResponse, error)
	ListForPatient(ctx context.Context, patientID uint) ([]*AssignmentResponse, error)
}

type CompletionService interface {
	LoadForTaking(ctx context.Context, assignmentID uint) (*AssignmentForTaking, error)
	Submit(ctx context.Context, req *SubmitCompletionRequest) (*CompletionResponse, error)
}

type HistoryService interface {
	GetHistory(ctx context.Context, templateID, patientID uint) ([]models.ScorePoint, error)
	GetAllForPatient(ctx context.Context, patientID uint) ([]*TemplateHistory, error)
}

type PatientService interface {
	GetByID(ctx context.Context, id uint) (*PatientResponse, error)
	GetByUserID(ctx context.Context, userID string) (*PatientResponse, error)
	ResolveByName(ctx context.Context, name string) (*PatientResponse, error)
	Overview(ctx context.Context) (*PatientListResponse, error)
}

type RecordService interface {
	// Record upsert; insert vs update is decided by a per-call existence check
	Save(ctx context.Context, req *RecordSaveRequest, doctorID string) (*RecordResponse, error)
	GetByPatient(ctx context.Context, patientID uint) (*RecordResponse, error)

	// Mood logging
	LogMood(ctx context.Context, req *MoodLogRequest, patientID uint) (*models.MoodLog, error)
	MoodHistory(ctx context.Context, patientID uint) ([]*models.MoodLog, error)
}

type ExportService interface {
	// ExportPatientHistory renders a patient's full score history as an
	// xlsx workbook, one sheet per template.
	ExportPatientHistory(ctx context.Context, patientID uint) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Template() TemplateService
	Assignment() AssignmentService
	Completion() CompletionService
	History() HistoryService
	Patient() PatientService
	Record() RecordService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
