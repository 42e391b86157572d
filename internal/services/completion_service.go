package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/CareScope-Clinic/assessment-service/internal/events"
	"github.com/CareScope-Clinic/assessment-service/internal/models"
	"github.com/CareScope-Clinic/assessment-service/internal/repositories"
	"github.com/CareScope-Clinic/assessment-service/internal/validator"
	"gorm.io/gorm"
)

type completionService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewCompletionService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) CompletionService {
	return &completionService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// LoadForTaking resolves an assignment together with its template's
// questions and shared options. The combined fetch is the primary path;
// on failure the same payload is assembled from independent queries.
func (s *completionService) LoadForTaking(ctx context.Context, assignmentID uint) (*AssignmentForTaking, error) {
	taking, err := s.loadJoined(ctx, assignmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}

		s.logger.Warn("Joined assignment load failed, falling back to decomposed queries",
			"assignment_id", assignmentID, "error", err)

		taking, err = s.loadDecomposed(ctx, assignmentID)
		if err != nil {
			return nil, err
		}
	}

	if len(taking.Questions) == 0 || len(taking.Options) == 0 {
		return nil, ErrTemplateIncomplete
	}

	return taking, nil
}

func (s *completionService) loadJoined(ctx context.Context, assignmentID uint) (*AssignmentForTaking, error) {
	assignment, err := s.repo.Assignment().GetByIDWithDetails(ctx, s.db, assignmentID)
	if err != nil {
		return nil, err
	}

	template := assignment.Template
	return &AssignmentForTaking{
		Assignment: assignment,
		Template:   &template,
		Questions:  template.Questions,
		Options:    template.Options,
	}, nil
}

func (s *completionService) loadDecomposed(ctx context.Context, assignmentID uint) (*AssignmentForTaking, error) {
	assignment, err := s.repo.Assignment().GetByID(ctx, s.db, assignmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, NewStoreError("assignment.get", err)
	}

	template, err := s.repo.Template().GetByID(ctx, s.db, assignment.TemplateID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTemplateNotFound
		}
		return nil, NewStoreError("template.get", err)
	}

	questions, err := s.repo.Template().QuestionsByTemplate(ctx, s.db, template.ID)
	if err != nil {
		return nil, NewStoreError("template.questions", err)
	}
	options, err := s.repo.Template().OptionsByTemplate(ctx, s.db, template.ID)
	if err != nil {
		return nil, NewStoreError("template.options", err)
	}

	taking := &AssignmentForTaking{
		Assignment: assignment,
		Template:   template,
		Questions:  make([]models.TemplateQuestion, len(questions)),
		Options:    make([]models.TemplateOption, len(options)),
	}
	for i, question := range questions {
		taking.Questions[i] = *question
	}
	for i, option := range options {
		taking.Options[i] = *option
	}
	return taking, nil
}

// Submit records a completed assessment: the result row is inserted first,
// then the assignment flips to completed. A failed insert leaves the
// assignment assigned and retakeable. A failed status flip after a
// successful insert is retried once; if the retry fails too, the result
// stays persisted and the error is surfaced.
func (s *completionService) Submit(ctx context.Context, req *SubmitCompletionRequest) (*CompletionResponse, error) {
	s.logger.Info("Submitting completion", "assignment_id", req.AssignmentID)

	if errors := s.validator.GetBusinessValidator().ValidateSubmitCompletion(req); len(errors) > 0 {
		return nil, errors
	}

	assignment, err := s.repo.Assignment().GetByID(ctx, s.db, req.AssignmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	total := 0
	for _, score := range req.AnswerScores {
		total += score
	}

	rawScores, err := json.Marshal(req.AnswerScores)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answer scores: %w", err)
	}

	// Step 1: persist the result. On failure the assignment is untouched.
	result := &models.Result{
		AssignmentID: assignment.ID,
		TotalScore:   total,
		AnswerScores: rawScores,
	}
	if err := s.repo.Result().Create(ctx, s.db, result); err != nil {
		return nil, NewStoreError("result.create", err)
	}

	// Step 2: flip the assignment to completed.
	completedAt := time.Now()
	if err := s.repo.Assignment().MarkCompleted(ctx, s.db, assignment.ID, completedAt); err != nil {
		s.logger.Warn("Status update failed after result insert, retrying",
			"assignment_id", assignment.ID, "error", err)

		if retryErr := s.repo.Assignment().MarkCompleted(ctx, s.db, assignment.ID, completedAt); retryErr != nil {
			s.logger.Error("Status update retry failed, result persisted without status flip",
				"assignment_id", assignment.ID,
				"result_id", result.ID,
				"error", retryErr)
			return nil, NewStoreError("assignment.mark_completed", retryErr)
		}
	}

	s.logger.Info("Completion recorded",
		"assignment_id", assignment.ID,
		"total_score", total)

	publishEvent(ctx, s.publisher, s.logger, events.EventAssignmentCompleted, events.AssignmentCompletedEvent{
		AssignmentID: assignment.ID,
		TemplateID:   assignment.TemplateID,
		PatientID:    assignment.PatientID,
		TotalScore:   total,
	})

	return &CompletionResponse{
		AssignmentID: assignment.ID,
		TotalScore:   total,
		CompletedAt:  completedAt,
	}, nil
}
