package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CareScope-Clinic/assessment-service/internal/models"
	"github.com/CareScope-Clinic/assessment-service/internal/repositories"
	"github.com/CareScope-Clinic/assessment-service/internal/validator"
	"gorm.io/gorm"
)

type recordService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewRecordService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) RecordService {
	return &recordService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// Save upserts a patient's clinical record. Whether to insert or update is
// decided by an existence check scoped to this call.
func (s *recordService) Save(ctx context.Context, req *RecordSaveRequest, doctorID string) (*RecordResponse, error) {
	s.logger.Info("Saving patient record", "patient_id", req.PatientID, "doctor_id", doctorID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	patientExists, err := s.repo.Patient().ExistsByID(ctx, s.db, req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check patient: %w", err)
	}
	if !patientExists {
		return nil, ErrPatientNotFound
	}

	existing, err := s.repo.Record().GetByPatient(ctx, s.db, req.PatientID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check existing record: %w", err)
	}

	if existing == nil {
		record := &models.PatientRecord{
			PatientID:     req.PatientID,
			DoctorID:      doctorID,
			Notes:         req.Notes,
			TreatmentPlan: req.TreatmentPlan,
		}
		if err := s.repo.Record().Create(ctx, s.db, record); err != nil {
			return nil, NewStoreError("record.create", err)
		}
		return &RecordResponse{PatientRecord: record}, nil
	}

	existing.DoctorID = doctorID
	existing.Notes = req.Notes
	existing.TreatmentPlan = req.TreatmentPlan
	if err := s.repo.Record().Update(ctx, s.db, existing); err != nil {
		return nil, NewStoreError("record.update", err)
	}
	return &RecordResponse{PatientRecord: existing}, nil
}

func (s *recordService) GetByPatient(ctx context.Context, patientID uint) (*RecordResponse, error) {
	record, err := s.repo.Record().GetByPatient(ctx, s.db, patientID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return &RecordResponse{PatientRecord: record}, nil
}

func (s *recordService) LogMood(ctx context.Context, req *MoodLogRequest, patientID uint) (*models.MoodLog, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	patientExists, err := s.repo.Patient().ExistsByID(ctx, s.db, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check patient: %w", err)
	}
	if !patientExists {
		return nil, ErrPatientNotFound
	}

	log := &models.MoodLog{
		PatientID: patientID,
		MoodScore: req.MoodScore,
		Note:      req.Note,
	}
	if err := s.repo.Mood().Create(ctx, s.db, log); err != nil {
		return nil, NewStoreError("mood.create", err)
	}

	return log, nil
}

func (s *recordService) MoodHistory(ctx context.Context, patientID uint) ([]*models.MoodLog, error) {
	logs, err := s.repo.Mood().ListByPatient(ctx, s.db, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mood logs: %w", err)
	}
	return logs, nil
}
