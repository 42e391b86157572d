package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/CareScope-Clinic/assessment-service/internal/models"
	"github.com/CareScope-Clinic/assessment-service/internal/repositories"
)

type ResultPostgreSQL struct {
	db *gorm.DB
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{db: db}
}

func (r *ResultPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *ResultPostgreSQL) Create(ctx context.Context, tx *gorm.DB, result *models.Result) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("failed to create result: %w", err)
	}
	return nil
}

func (r *ResultPostgreSQL) GetByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) (*models.Result, error) {
	db := r.getDB(tx)
	var result models.Result
	err := db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	return &result, nil
}

// ListByTemplateAndPatient joins results through assignments in one query
// (primary path for the aggregator); chronological order.
func (r *ResultPostgreSQL) ListByTemplateAndPatient(ctx context.Context, tx *gorm.DB, templateID, patientID uint) ([]*models.Result, error) {
	db := r.getDB(tx)
	var results []*models.Result
	err := db.WithContext(ctx).
		Joins("JOIN assessment_assignments ON assessment_assignments.id = assessment_results.assignment_id").
		Where("assessment_assignments.template_id = ? AND assessment_assignments.patient_id = ?",
			templateID, patientID).
		Order("assessment_results.created_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list results by template and patient: %w", err)
	}
	return results, nil
}

func (r *ResultPostgreSQL) ListByAssignmentIDs(ctx context.Context, tx *gorm.DB, assignmentIDs []uint) ([]*models.Result, error) {
	if len(assignmentIDs) == 0 {
		return nil, nil
	}

	db := r.getDB(tx)
	var results []*models.Result
	err := db.WithContext(ctx).
		Where("assignment_id IN ?", assignmentIDs).
		Order("created_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list results by assignment ids: %w", err)
	}
	return results, nil
}

func (r *ResultPostgreSQL) CountByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) (int64, error) {
	db := r.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.Result{}).
		Where("assignment_id = ?", assignmentID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return count, nil
}
