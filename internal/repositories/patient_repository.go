package repositories

import (
	"context"

	"github.com/CareScope-Clinic/assessment-service/internal/models"
	"gorm.io/gorm"
)

// PatientRepository interface for clinic-side patient records.
type PatientRepository interface {
	// Single-patient fetches preload Alerts so the status badge can be
	// derived without a second query.
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Patient, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Patient, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.Patient, error) // exact match

	// Combined retrieval (primary path): patients with alerts preloaded.
	ListWithAlerts(ctx context.Context, tx *gorm.DB) ([]*models.Patient, error)

	// Decomposed retrieval (fallback path)
	List(ctx context.Context, tx *gorm.DB, filters PatientFilters) ([]*models.Patient, int64, error)
	AlertsByPatients(ctx context.Context, tx *gorm.DB, patientIDs []uint) ([]*models.Alert, error)

	ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
}

// RecordRepository interface for the notes/treatment-plan row. Insert vs
// update is chosen by a per-call existence check, never by shared state.
type RecordRepository interface {
	GetByPatient(ctx context.Context, tx *gorm.DB, patientID uint) (*models.PatientRecord, error)
	Create(ctx context.Context, tx *gorm.DB, record *models.PatientRecord) error
	Update(ctx context.Context, tx *gorm.DB, record *models.PatientRecord) error
}

// MoodRepository interface for patient mood logs.
type MoodRepository interface {
	Create(ctx context.Context, tx *gorm.DB, log *models.MoodLog) error
	ListByPatient(ctx context.Context, tx *gorm.DB, patientID uint) ([]*models.MoodLog, error)
}
