package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/CareScope-Clinic/assessment-service/internal/models"
	"github.com/CareScope-Clinic/assessment-service/internal/repositories"
)

type PatientPostgreSQL struct {
	db *gorm.DB
}

func NewPatientPostgreSQL(db *gorm.DB) repositories.PatientRepository {
	return &PatientPostgreSQL{db: db}
}

func (p *PatientPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

func (p *PatientPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Patient, error) {
	db := p.getDB(tx)
	var patient models.Patient
	if err := db.WithContext(ctx).Preload("Alerts").First(&patient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (p *PatientPostgreSQL) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Patient, error) {
	db := p.getDB(tx)
	var patient models.Patient
	err := db.WithContext(ctx).Preload("Alerts").Where("user_id = ?", userID).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient by user: %w", err)
	}
	return &patient, nil
}

func (p *PatientPostgreSQL) GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.Patient, error) {
	db := p.getDB(tx)
	var patient models.Patient
	err := db.WithContext(ctx).Where("name = ?", name).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient by name: %w", err)
	}
	return &patient, nil
}

func (p *PatientPostgreSQL) ListWithAlerts(ctx context.Context, tx *gorm.DB) ([]*models.Patient, error) {
	db := p.getDB(tx)
	var patients []*models.Patient
	err := db.WithContext(ctx).
		Preload("Alerts").
		Order("name ASC").
		Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list patients with alerts: %w", err)
	}
	return patients, nil
}

func (p *PatientPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.PatientFilters) ([]*models.Patient, int64, error) {
	db := p.getDB(tx)
	var patients []*models.Patient
	var total int64

	query := db.WithContext(ctx).Model(&models.Patient{})
	if filters.Query != "" {
		query = query.Where("name ILIKE ?", "%"+filters.Query+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	query = query.Order("name ASC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	if err := query.Find(&patients).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list patients: %w", err)
	}

	return patients, total, nil
}

func (p *PatientPostgreSQL) AlertsByPatients(ctx context.Context, tx *gorm.DB, patientIDs []uint) ([]*models.Alert, error) {
	if len(patientIDs) == 0 {
		return nil, nil
	}

	db := p.getDB(tx)
	var alerts []*models.Alert
	err := db.WithContext(ctx).
		Where("patient_id IN ?", patientIDs).
		Find(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get alerts: %w", err)
	}
	return alerts, nil
}

func (p *PatientPostgreSQL) ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := p.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.Patient{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check patient existence: %w", err)
	}
	return count > 0, nil
}
