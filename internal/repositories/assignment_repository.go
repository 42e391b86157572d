package repositories

import (
	"context"
	"time"

	"github.com/CareScope-Clinic/assessment-service/internal/models"
	"gorm.io/gorm"
)

// AssignmentRepository interface for assignment lifecycle operations.
type AssignmentRepository interface {
	// Basic operations
	Create(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error) // template + questions + options joined

	// Lifecycle
	MarkCompleted(ctx context.Context, tx *gorm.DB, id uint, completedAt time.Time) error

	// Uniqueness check for the single-active-assignment rule
	FindActive(ctx context.Context, tx *gorm.DB, templateID, patientID uint) (*models.Assignment, error)

	// Combined retrieval (primary path): active assignments with template
	// names resolved in one joined query.
	ListActiveWithTemplates(ctx context.Context, tx *gorm.DB, patientID uint) ([]*models.Assignment, error)

	// Decomposed retrieval (fallback path)
	ListActiveByPatient(ctx context.Context, tx *gorm.DB, patientID uint) ([]*models.Assignment, error)

	// Aggregation support
	IDsByTemplateAndPatient(ctx context.Context, tx *gorm.DB, templateID, patientID uint) ([]uint, error)

	List(ctx context.Context, tx *gorm.DB, filters AssignmentFilters) ([]*models.Assignment, int64, error)
}

// ResultRepository interface for scored outcomes.
type ResultRepository interface {
	Create(ctx context.Context, tx *gorm.DB, result *models.Result) error
	GetByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) (*models.Result, error)

	// Combined retrieval (primary path): results joined through
	// assignments for a (template, patient) pair, chronological.
	ListByTemplateAndPatient(ctx context.Context, tx *gorm.DB, templateID, patientID uint) ([]*models.Result, error)

	// Decomposed retrieval (fallback path)
	ListByAssignmentIDs(ctx context.Context, tx *gorm.DB, assignmentIDs []uint) ([]*models.Result, error)

	CountByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) (int64, error)
}
