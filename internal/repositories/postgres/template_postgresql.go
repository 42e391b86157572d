package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/CareScope-Clinic/assessment-service/internal/cache"
	"github.com/CareScope-Clinic/assessment-service/internal/models"
	"github.com/CareScope-Clinic/assessment-service/internal/repositories"
)

type TemplatePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewTemplatePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.TemplateRepository {
	return &TemplatePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (t *TemplatePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return t.db
}

func (t *TemplatePostgreSQL) Create(ctx context.Context, tx *gorm.DB, template *models.Template) error {
	db := t.getDB(tx)
	if err := db.WithContext(ctx).Create(template).Error; err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, t.cacheManager.Template, fmt.Sprintf("doctor:%s:*", template.DoctorID))
	cache.SafeInvalidatePattern(ctx, t.cacheManager.Template, "list:*")

	return nil
}

func (t *TemplatePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Template, error) {
	db := t.getDB(tx)
	var template models.Template
	if err := db.WithContext(ctx).First(&template, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return &template, nil
}

// GetByIDWithDetails retrieves a template with questions and options in one
// combined query. This is the primary retrieval path; callers fall back to
// the decomposed QuestionsByTemplate/OptionsByTemplate fetches if it fails.
func (t *TemplatePostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Template, error) {
	db := t.getDB(tx)
	cacheKey := fmt.Sprintf("details:%d", id)
	var template models.Template

	err := t.cacheManager.Template.CacheOrExecute(ctx, cacheKey, &template, cache.TemplateCacheConfig.TTL, func() (interface{}, error) {
		var dbTemplate models.Template
		err := db.WithContext(ctx).
			Preload("Questions", func(db *gorm.DB) *gorm.DB {
				return db.Order("template_questions.id ASC")
			}).
			Preload("Options", func(db *gorm.DB) *gorm.DB {
				return db.Order("template_options.id ASC")
			}).
			First(&dbTemplate, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, repositories.ErrNotFound
			}
			return nil, fmt.Errorf("failed to get template details: %w", err)
		}

		dbTemplate.QuestionCount = len(dbTemplate.Questions)
		dbTemplate.OptionCount = len(dbTemplate.Options)
		return &dbTemplate, nil
	})

	if err != nil {
		return nil, err
	}

	return &template, nil
}

func (t *TemplatePostgreSQL) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Template, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	db := t.getDB(tx)
	var templates []*models.Template
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to get templates by ids: %w", err)
	}
	return templates, nil
}

func (t *TemplatePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := t.getDB(tx)
	if err := db.WithContext(ctx).Unscoped().Delete(&models.Template{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	cache.InvalidateTemplateCache(ctx, t.cacheManager, id)

	return nil
}

func (t *TemplatePostgreSQL) CreateQuestions(ctx context.Context, tx *gorm.DB, questions []*models.TemplateQuestion) error {
	if len(questions) == 0 {
		return nil
	}

	db := t.getDB(tx)
	if err := db.WithContext(ctx).Create(&questions).Error; err != nil {
		return fmt.Errorf("failed to create template questions: %w", err)
	}
	return nil
}

func (t *TemplatePostgreSQL) CreateOptions(ctx context.Context, tx *gorm.DB, options []*models.TemplateOption) error {
	if len(options) == 0 {
		return nil
	}

	db := t.getDB(tx)
	if err := db.WithContext(ctx).Create(&options).Error; err != nil {
		return fmt.Errorf("failed to create template options: %w", err)
	}
	return nil
}

func (t *TemplatePostgreSQL) DeleteQuestions(ctx context.Context, tx *gorm.DB, templateID uint) error {
	db := t.getDB(tx)
	if err := db.WithContext(ctx).Where("template_id = ?", templateID).Delete(&models.TemplateQuestion{}).Error; err != nil {
		return fmt.Errorf("failed to delete template questions: %w", err)
	}
	return nil
}

func (t *TemplatePostgreSQL) DeleteOptions(ctx context.Context, tx *gorm.DB, templateID uint) error {
	db := t.getDB(tx)
	if err := db.WithContext(ctx).Where("template_id = ?", templateID).Delete(&models.TemplateOption{}).Error; err != nil {
		return fmt.Errorf("failed to delete template options: %w", err)
	}
	return nil
}

func (t *TemplatePostgreSQL) QuestionsByTemplate(ctx context.Context, tx *gorm.DB, templateID uint) ([]*models.TemplateQuestion, error) {
	db := t.getDB(tx)
	var questions []*models.TemplateQuestion
	if err := db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("id ASC").
		Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to get template questions: %w", err)
	}
	return questions, nil
}

func (t *TemplatePostgreSQL) OptionsByTemplate(ctx context.Context, tx *gorm.DB, templateID uint) ([]*models.TemplateOption, error) {
	db := t.getDB(tx)
	var options []*models.TemplateOption
	if err := db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("id ASC").
		Find(&options).Error; err != nil {
		return nil, fmt.Errorf("failed to get template options: %w", err)
	}
	return options, nil
}

func (t *TemplatePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.TemplateFilters) ([]*models.Template, int64, error) {
	db := t.getDB(tx)
	var templates []*models.Template
	var total int64

	query := db.WithContext(ctx).Model(&models.Template{})
	if filters.DoctorID != nil {
		query = query.Where("doctor_id = ?", *filters.DoctorID)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count templates: %w", err)
	}

	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&templates).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list templates: %w", err)
	}

	return templates, total, nil
}

func (t *TemplatePostgreSQL) ListAll(ctx context.Context, tx *gorm.DB) ([]*models.Template, error) {
	db := t.getDB(tx)
	var templates []*models.Template
	if err := db.WithContext(ctx).Order("created_at DESC").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to list all templates: %w", err)
	}
	return templates, nil
}

func (t *TemplatePostgreSQL) Stats(ctx context.Context, tx *gorm.DB, templateID uint) (*repositories.TemplateStats, error) {
	db := t.getDB(tx)
	stats := &repositories.TemplateStats{}

	var totalAssignments, completedAssignments int64
	if err := db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("template_id = ?", templateID).
		Count(&totalAssignments).Error; err != nil {
		return nil, fmt.Errorf("failed to count assignments: %w", err)
	}
	if err := db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("template_id = ? AND status = ?", templateID, models.AssignmentCompleted).
		Count(&completedAssignments).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed assignments: %w", err)
	}
	stats.TotalAssignments = int(totalAssignments)
	stats.CompletedAssignments = int(completedAssignments)

	var averageScore sql.NullFloat64
	if err := db.WithContext(ctx).
		Model(&models.Result{}).
		Select("AVG(assessment_results.total_score)").
		Joins("JOIN assessment_assignments ON assessment_assignments.id = assessment_results.assignment_id").
		Where("assessment_assignments.template_id = ?", templateID).
		Scan(&averageScore).Error; err != nil {
		return nil, fmt.Errorf("failed to average scores: %w", err)
	}
	if averageScore.Valid {
		stats.AverageScore = averageScore.Float64
	}

	var questionCount, optionCount int64
	if err := db.WithContext(ctx).
		Model(&models.TemplateQuestion{}).
		Where("template_id = ?", templateID).
		Count(&questionCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}
	if err := db.WithContext(ctx).
		Model(&models.TemplateOption{}).
		Where("template_id = ?", templateID).
		Count(&optionCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count options: %w", err)
	}
	stats.QuestionCount = int(questionCount)
	stats.OptionCount = int(optionCount)

	return stats, nil
}

func (t *TemplatePostgreSQL) DoctorStats(ctx context.Context, tx *gorm.DB, doctorID string) (*repositories.DoctorStats, error) {
	db := t.getDB(tx)
	stats := &repositories.DoctorStats{}

	var totalTemplates, totalAssignments, pendingResults int64
	if err := db.WithContext(ctx).
		Model(&models.Template{}).
		Where("doctor_id = ?", doctorID).
		Count(&totalTemplates).Error; err != nil {
		return nil, fmt.Errorf("failed to count templates: %w", err)
	}
	if err := db.WithContext(ctx).
		Model(&models.Assignment{}).
		Joins("JOIN assessment_templates ON assessment_templates.id = assessment_assignments.template_id").
		Where("assessment_templates.doctor_id = ?", doctorID).
		Count(&totalAssignments).Error; err != nil {
		return nil, fmt.Errorf("failed to count assignments: %w", err)
	}
	if err := db.WithContext(ctx).
		Model(&models.Assignment{}).
		Joins("JOIN assessment_templates ON assessment_templates.id = assessment_assignments.template_id").
		Where("assessment_templates.doctor_id = ? AND assessment_assignments.status = ?", doctorID, models.AssignmentAssigned).
		Count(&pendingResults).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending assignments: %w", err)
	}

	stats.TotalTemplates = int(totalTemplates)
	stats.TotalAssignments = int(totalAssignments)
	stats.PendingResults = int(pendingResults)

	return stats, nil
}

func (t *TemplatePostgreSQL) ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := t.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Template{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check template existence: %w", err)
	}
	return count > 0, nil
}
