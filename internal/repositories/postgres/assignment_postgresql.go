package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/CareScope-Clinic/assessment-service/internal/cache"
	"github.com/CareScope-Clinic/assessment-service/internal/models"
	"github.com/CareScope-Clinic/assessment-service/internal/repositories"
)

type AssignmentPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewAssignmentPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.AssignmentRepository {
	return &AssignmentPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (a *AssignmentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}

func (a *AssignmentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error {
	db := a.getDB(tx)
	if err := db.WithContext(ctx).Create(assignment).Error; err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	cache.InvalidateAssignmentCache(ctx, a.cacheManager, assignment.ID, assignment.PatientID)

	return nil
}

func (a *AssignmentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error) {
	db := a.getDB(tx)
	var assignment models.Assignment
	if err := db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return &assignment, nil
}

// GetByIDWithDetails resolves the assignment together with its template,
// questions and options in a single combined query (primary path for the
// completion engine).
func (a *AssignmentPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error) {
	db := a.getDB(tx)
	var assignment models.Assignment
	err := db.WithContext(ctx).
		Preload("Template").
		Preload("Template.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("template_questions.id ASC")
		}).
		Preload("Template.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("template_options.id ASC")
		}).
		First(&assignment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get assignment details: %w", err)
	}
	return &assignment, nil
}

func (a *AssignmentPostgreSQL) MarkCompleted(ctx context.Context, tx *gorm.DB, id uint, completedAt time.Time) error {
	db := a.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.AssignmentCompleted,
			"completed_at": completedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark assignment completed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	cache.SafeDelete(ctx, a.cacheManager.Assignment, fmt.Sprintf("id:%d", id))
	cache.SafeInvalidatePattern(ctx, a.cacheManager.Assignment, "patient:*")

	return nil
}

func (a *AssignmentPostgreSQL) FindActive(ctx context.Context, tx *gorm.DB, templateID, patientID uint) (*models.Assignment, error) {
	db := a.getDB(tx)
	var assignment models.Assignment
	err := db.WithContext(ctx).
		Where("template_id = ? AND patient_id = ? AND status = ?",
			templateID, patientID, models.AssignmentAssigned).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active assignment: %w", err)
	}
	return &assignment, nil
}

func (a *AssignmentPostgreSQL) ListActiveWithTemplates(ctx context.Context, tx *gorm.DB, patientID uint) ([]*models.Assignment, error) {
	db := a.getDB(tx)
	var assignments []*models.Assignment
	err := db.WithContext(ctx).
		Preload("Template").
		Where("patient_id = ? AND status = ?", patientID, models.AssignmentAssigned).
		Order("created_at DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active assignments with templates: %w", err)
	}

	for _, assignment := range assignments {
		assignment.TemplateName = assignment.Template.Name
	}
	return assignments, nil
}

func (a *AssignmentPostgreSQL) ListActiveByPatient(ctx context.Context, tx *gorm.DB, patientID uint) ([]*models.Assignment, error) {
	db := a.getDB(tx)
	var assignments []*models.Assignment
	err := db.WithContext(ctx).
		Where("patient_id = ? AND status = ?", patientID, models.AssignmentAssigned).
		Order("created_at DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active assignments: %w", err)
	}
	return assignments, nil
}

func (a *AssignmentPostgreSQL) IDsByTemplateAndPatient(ctx context.Context, tx *gorm.DB, templateID, patientID uint) ([]uint, error) {
	db := a.getDB(tx)
	var ids []uint
	err := db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("template_id = ? AND patient_id = ?", templateID, patientID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment ids: %w", err)
	}
	return ids, nil
}

func (a *AssignmentPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.AssignmentFilters) ([]*models.Assignment, int64, error) {
	db := a.getDB(tx)
	var assignments []*models.Assignment
	var total int64

	query := db.WithContext(ctx).Model(&models.Assignment{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.TemplateID != nil {
		query = query.Where("template_id = ?", *filters.TemplateID)
	}
	if filters.PatientID != nil {
		query = query.Where("patient_id = ?", *filters.PatientID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count assignments: %w", err)
	}

	query = query.Order("created_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	if err := query.Find(&assignments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list assignments: %w", err)
	}

	return assignments, total, nil
}
