package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CareScope-Clinic/assessment-service/internal/events"
	"github.com/CareScope-Clinic/assessment-service/internal/models"
	"github.com/CareScope-Clinic/assessment-service/internal/repositories"
	"github.com/CareScope-Clinic/assessment-service/internal/validator"
	"gorm.io/gorm"
)

type assignmentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewAssignmentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) AssignmentService {
	return &assignmentService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// ===== ISSUANCE =====

// Assign issues a template to a patient. At most one active assignment may
// exist per (template, patient); the check here is existence-then-insert,
// backed by a partial unique index on the store for the concurrent case.
func (s *assignmentService) Assign(ctx context.Context, req *AssignRequest, doctorID string) (*AssignmentResponse, error) {
	s.logger.Info("Assigning template", "template_id", req.TemplateID, "doctor_id", doctorID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	patient, err := s.resolvePatient(ctx, req)
	if err != nil {
		return nil, err
	}

	templateExists, err := s.repo.Template().ExistsByID(ctx, s.db, req.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("failed to check template: %w", err)
	}
	if !templateExists {
		return nil, ErrTemplateNotFound
	}

	// Step 1: reject if an active assignment already exists for the pair.
	existing, err := s.repo.Assignment().FindActive(ctx, s.db, req.TemplateID, patient.ID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check active assignment: %w", err)
	}
	if existing != nil {
		return nil, NewConflictError(req.TemplateID, patient.ID)
	}

	// Step 2: insert. A concurrent writer that also passed step 1 trips
	// the unique index here and surfaces as a conflict.
	assignment := &models.Assignment{
		TemplateID: req.TemplateID,
		PatientID:  patient.ID,
		Status:     models.AssignmentAssigned,
	}
	if err := s.repo.Assignment().Create(ctx, s.db, assignment); err != nil {
		return nil, NewStoreError("assignment.create", err)
	}

	s.logger.Info("Template assigned",
		"assignment_id", assignment.ID,
		"template_id", req.TemplateID,
		"patient_id", patient.ID)

	publishEvent(ctx, s.publisher, s.logger, events.EventAssignmentCreated, events.AssignmentCreatedEvent{
		AssignmentID: assignment.ID,
		TemplateID:   assignment.TemplateID,
		PatientID:    assignment.PatientID,
		DoctorID:     doctorID,
	})

	return &AssignmentResponse{Assignment: assignment}, nil
}

// resolvePatient locates the target patient by identifier, or by exact
// name match when the caller supplied a name instead.
func (s *assignmentService) resolvePatient(ctx context.Context, req *AssignRequest) (*models.Patient, error) {
	if req.PatientID != 0 {
		patient, err := s.repo.Patient().GetByID(ctx, s.db, req.PatientID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrPatientNotFound
			}
			return nil, fmt.Errorf("failed to get patient: %w", err)
		}
		return patient, nil
	}

	patient, err := s.repo.Patient().GetByName(ctx, s.db, req.PatientName)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to get patient by name: %w", err)
	}
	return patient, nil
}

// ===== RETRIEVAL =====

func (s *assignmentService) GetByID(ctx context.Context, id uint) (*AssignmentResponse, error) {
	assignment, err := s.repo.Assignment().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return &AssignmentResponse{Assignment: assignment}, nil
}

// ListForPatient returns all active assignments with template names
// resolved. The joined query is the primary path; if it fails, the same
// data is assembled from two independent queries so callers observe no
// difference.
func (s *assignmentService) ListForPatient(ctx context.Context, patientID uint) ([]*AssignmentResponse, error) {
	assignments, err := s.repo.Assignment().ListActiveWithTemplates(ctx, s.db, patientID)
	if err != nil {
		s.logger.Warn("Joined assignment retrieval failed, falling back to decomposed queries",
			"patient_id", patientID, "error", err)

		assignments, err = s.listForPatientDecomposed(ctx, patientID)
		if err != nil {
			return nil, NewStoreError("assignment.list_for_patient", err)
		}
	}

	response := make([]*AssignmentResponse, len(assignments))
	for i, assignment := range assignments {
		response[i] = &AssignmentResponse{Assignment: assignment}
	}
	return response, nil
}

func (s *assignmentService) listForPatientDecomposed(ctx context.Context, patientID uint) ([]*models.Assignment, error) {
	assignments, err := s.repo.Assignment().ListActiveByPatient(ctx, s.db, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	if len(assignments) == 0 {
		return assignments, nil
	}

	templateIDs := make([]uint, 0, len(assignments))
	seen := make(map[uint]bool, len(assignments))
	for _, assignment := range assignments {
		if !seen[assignment.TemplateID] {
			seen[assignment.TemplateID] = true
			templateIDs = append(templateIDs, assignment.TemplateID)
		}
	}

	templates, err := s.repo.Template().GetByIDs(ctx, s.db, templateIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch templates for assignments: %w", err)
	}

	namesByID := make(map[uint]string, len(templates))
	for _, template := range templates {
		namesByID[template.ID] = template.Name
	}
	for _, assignment := range assignments {
		assignment.TemplateName = namesByID[assignment.TemplateID]
	}

	return assignments, nil
}
