package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/CareScope-Clinic/assessment-service/internal/models"
	"github.com/CareScope-Clinic/assessment-service/internal/repositories"
)

type RecordPostgreSQL struct {
	db *gorm.DB
}

func NewRecordPostgreSQL(db *gorm.DB) repositories.RecordRepository {
	return &RecordPostgreSQL{db: db}
}

func (r *RecordPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *RecordPostgreSQL) GetByPatient(ctx context.Context, tx *gorm.DB, patientID uint) (*models.PatientRecord, error) {
	db := r.getDB(tx)
	var record models.PatientRecord
	err := db.WithContext(ctx).Where("patient_id = ?", patientID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient record: %w", err)
	}
	return &record, nil
}

func (r *RecordPostgreSQL) Create(ctx context.Context, tx *gorm.DB, record *models.PatientRecord) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create patient record: %w", err)
	}
	return nil
}

func (r *RecordPostgreSQL) Update(ctx context.Context, tx *gorm.DB, record *models.PatientRecord) error {
	db := r.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.PatientRecord{}).
		Where("patient_id = ?", record.PatientID).
		Updates(map[string]interface{}{
			"doctor_id":      record.DoctorID,
			"notes":          record.Notes,
			"treatment_plan": record.TreatmentPlan,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update patient record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

type MoodPostgreSQL struct {
	db *gorm.DB
}

func NewMoodPostgreSQL(db *gorm.DB) repositories.MoodRepository {
	return &MoodPostgreSQL{db: db}
}

func (m *MoodPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return m.db
}

func (m *MoodPostgreSQL) Create(ctx context.Context, tx *gorm.DB, log *models.MoodLog) error {
	db := m.getDB(tx)
	if err := db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to create mood log: %w", err)
	}
	return nil
}

func (m *MoodPostgreSQL) ListByPatient(ctx context.Context, tx *gorm.DB, patientID uint) ([]*models.MoodLog, error) {
	db := m.getDB(tx)
	var logs []*models.MoodLog
	err := db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at ASC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list mood logs: %w", err)
	}
	return logs, nil
}
