package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CareScope-Clinic/assessment-service/internal/models"
	"github.com/CareScope-Clinic/assessment-service/internal/repositories"
	"gorm.io/gorm"
)

type patientService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewPatientService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) PatientService {
	return &patientService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (s *patientService) GetByID(ctx context.Context, id uint) (*PatientResponse, error) {
	patient, err := s.repo.Patient().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	patient.Status = models.StatusFromAlerts(patient.Alerts)
	return &PatientResponse{Patient: patient}, nil
}

func (s *patientService) GetByUserID(ctx context.Context, userID string) (*PatientResponse, error) {
	patient, err := s.repo.Patient().GetByUserID(ctx, s.db, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to get patient by user id: %w", err)
	}

	patient.Status = models.StatusFromAlerts(patient.Alerts)
	return &PatientResponse{Patient: patient}, nil
}

func (s *patientService) ResolveByName(ctx context.Context, name string) (*PatientResponse, error) {
	patient, err := s.repo.Patient().GetByName(ctx, s.db, name)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to get patient by name: %w", err)
	}
	return &PatientResponse{Patient: patient}, nil
}

// Overview returns every patient with their alert-derived status badge.
// The preloaded query is the primary path; if it fails, patients and
// alerts are fetched independently and matched in memory.
func (s *patientService) Overview(ctx context.Context) (*PatientListResponse, error) {
	patients, err := s.repo.Patient().ListWithAlerts(ctx, s.db)
	if err != nil {
		s.logger.Warn("Preloaded patient retrieval failed, falling back to decomposed queries", "error", err)

		patients, err = s.overviewDecomposed(ctx)
		if err != nil {
			return nil, NewStoreError("patient.overview", err)
		}
	}

	response := &PatientListResponse{
		Patients: make([]*PatientResponse, len(patients)),
		Total:    int64(len(patients)),
	}
	for i, patient := range patients {
		patient.Status = models.StatusFromAlerts(patient.Alerts)
		response.Patients[i] = &PatientResponse{Patient: patient}
	}
	return response, nil
}

func (s *patientService) overviewDecomposed(ctx context.Context) ([]*models.Patient, error) {
	patients, _, err := s.repo.Patient().List(ctx, s.db, repositories.PatientFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	if len(patients) == 0 {
		return patients, nil
	}

	ids := make([]uint, len(patients))
	for i, patient := range patients {
		ids[i] = patient.ID
	}

	alerts, err := s.repo.Patient().AlertsByPatients(ctx, s.db, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch alerts: %w", err)
	}

	alertsByPatient := make(map[uint][]models.Alert, len(patients))
	for _, alert := range alerts {
		alertsByPatient[alert.PatientID] = append(alertsByPatient[alert.PatientID], *alert)
	}
	for _, patient := range patients {
		patient.Alerts = alertsByPatient[patient.ID]
	}

	return patients, nil
}
