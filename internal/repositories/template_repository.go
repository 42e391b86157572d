package repositories

import (
	"context"

	"github.com/CareScope-Clinic/assessment-service/internal/models"
	"gorm.io/gorm"
)

// TemplateRepository interface for assessment template operations.
//
// The template header, its questions and its options are individually
// addressable records; the multi-row creation protocol (insert header,
// then options, then questions, with compensating deletes on failure)
// lives in the service layer, so every step here is a single-entity call.
type TemplateRepository interface {
	// Header operations
	Create(ctx context.Context, tx *gorm.DB, template *models.Template) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Template, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Template, error) // questions + options in one query
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Template, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Question/option batch operations
	CreateQuestions(ctx context.Context, tx *gorm.DB, questions []*models.TemplateQuestion) error
	CreateOptions(ctx context.Context, tx *gorm.DB, options []*models.TemplateOption) error
	DeleteQuestions(ctx context.Context, tx *gorm.DB, templateID uint) error
	DeleteOptions(ctx context.Context, tx *gorm.DB, templateID uint) error

	// Decomposed fetches for the fallback retrieval path
	QuestionsByTemplate(ctx context.Context, tx *gorm.DB, templateID uint) ([]*models.TemplateQuestion, error)
	OptionsByTemplate(ctx context.Context, tx *gorm.DB, templateID uint) ([]*models.TemplateOption, error)

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters TemplateFilters) ([]*models.Template, int64, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*models.Template, error)

	// Statistics
	Stats(ctx context.Context, tx *gorm.DB, templateID uint) (*TemplateStats, error)
	DoctorStats(ctx context.Context, tx *gorm.DB, doctorID string) (*DoctorStats, error)

	// Validation and checks
	ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
}
