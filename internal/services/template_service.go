package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/CareScope-Clinic/assessment-service/internal/cache"
	"github.com/CareScope-Clinic/assessment-service/internal/events"
	"github.com/CareScope-Clinic/assessment-service/internal/models"
	"github.com/CareScope-Clinic/assessment-service/internal/repositories"
	"github.com/CareScope-Clinic/assessment-service/internal/validator"
	"gorm.io/gorm"
)

type templateService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher

	// In-process cache for assembled templates; they are immutable after
	// creation, so only deletion has to invalidate.
	detailsCache *cache.TemplateCache
}

func NewTemplateService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) TemplateService {
	s := &templateService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
	s.detailsCache = cache.NewTemplateCache(s.loadTemplateWithDetails, 5*time.Minute)
	return s
}

// ===== CORE OPERATIONS =====

// Create persists a template as a three-step saga: header, then options,
// then questions. Each step that fails triggers compensating deletes for
// the steps already applied, so no orphaned header or partial option set
// survives a failure.
func (s *templateService) Create(ctx context.Context, req *CreateTemplateRequest, doctorID string) (*TemplateResponse, error) {
	s.logger.Info("Creating template", "doctor_id", doctorID, "name", req.Name)

	// Validate request with business rules
	if errors := s.validator.GetBusinessValidator().ValidateTemplateCreate(req); len(errors) > 0 {
		return nil, errors
	}

	// Invalid rows are dropped here, never stored
	questionTexts := validator.FilterQuestionTexts(req.Questions)
	optionSpecs := validator.FilterOptionSpecs(req.Options)

	// Step 1: template header. Nothing to compensate on failure.
	template := &models.Template{
		Name:     req.Name,
		DoctorID: doctorID,
	}
	if err := s.repo.Template().Create(ctx, s.db, template); err != nil {
		return nil, NewStoreError("template.create", err)
	}

	// Step 2: options. Compensate by deleting the header.
	options := make([]*models.TemplateOption, len(optionSpecs))
	for i, spec := range optionSpecs {
		options[i] = &models.TemplateOption{
			TemplateID: template.ID,
			Text:       spec.Text,
			ScoreValue: spec.ScoreValue,
		}
	}
	if err := s.repo.Template().CreateOptions(ctx, s.db, options); err != nil {
		s.compensateCreate(ctx, template.ID, false)
		return nil, NewStoreError("template.create_options", err)
	}

	// Step 3: questions. Compensate by deleting options, then the header.
	questions := make([]*models.TemplateQuestion, len(questionTexts))
	for i, text := range questionTexts {
		questions[i] = &models.TemplateQuestion{
			TemplateID: template.ID,
			Text:       text,
		}
	}
	if err := s.repo.Template().CreateQuestions(ctx, s.db, questions); err != nil {
		s.compensateCreate(ctx, template.ID, true)
		return nil, NewStoreError("template.create_questions", err)
	}

	s.logger.Info("Template created successfully",
		"template_id", template.ID,
		"question_count", len(questions),
		"option_count", len(options))

	publishEvent(ctx, s.publisher, s.logger, events.EventTemplateCreated, events.TemplateCreatedEvent{
		TemplateID:    template.ID,
		Name:          template.Name,
		DoctorID:      doctorID,
		QuestionCount: len(questions),
		OptionCount:   len(options),
	})

	return s.GetByIDWithDetails(ctx, template.ID)
}

// compensateCreate undoes the already-applied steps of a failed creation.
// Best effort: a compensation failure is logged and the remaining steps
// still run.
func (s *templateService) compensateCreate(ctx context.Context, templateID uint, optionsInserted bool) {
	if optionsInserted {
		if err := s.repo.Template().DeleteOptions(ctx, s.db, templateID); err != nil {
			s.logger.Error("Compensating option delete failed", "template_id", templateID, "error", err)
		}
	}
	if err := s.repo.Template().Delete(ctx, s.db, templateID); err != nil {
		s.logger.Error("Compensating header delete failed", "template_id", templateID, "error", err)
	}
	s.detailsCache.Invalidate(templateID)
}

func (s *templateService) GetByID(ctx context.Context, id uint) (*TemplateResponse, error) {
	template, err := s.repo.Template().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	return &TemplateResponse{Template: template}, nil
}

func (s *templateService) GetByIDWithDetails(ctx context.Context, id uint) (*TemplateResponse, error) {
	template, err := s.detailsCache.Get(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get template with details: %w", err)
	}

	return &TemplateResponse{Template: template}, nil
}

func (s *templateService) loadTemplateWithDetails(ctx context.Context, id uint) (*models.Template, error) {
	template, err := s.repo.Template().GetByIDWithDetails(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	template.QuestionCount = len(template.Questions)
	template.OptionCount = len(template.Options)

	return template, nil
}

func (s *templateService) Delete(ctx context.Context, id uint, userID string) error {
	s.logger.Info("Deleting template", "template_id", id, "user_id", userID)

	template, err := s.repo.Template().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrTemplateNotFound
		}
		return fmt.Errorf("failed to get template: %w", err)
	}

	if template.DoctorID != userID {
		return NewPermissionError(userID, id, "template", "delete", "not the authoring doctor")
	}

	// Children first, then the header
	if err := s.repo.Template().DeleteQuestions(ctx, s.db, id); err != nil {
		return NewStoreError("template.delete_questions", err)
	}
	if err := s.repo.Template().DeleteOptions(ctx, s.db, id); err != nil {
		return NewStoreError("template.delete_options", err)
	}
	if err := s.repo.Template().Delete(ctx, s.db, id); err != nil {
		return NewStoreError("template.delete", err)
	}
	s.detailsCache.Invalidate(id)

	s.logger.Info("Template deleted successfully", "template_id", id)
	return nil
}

// ===== LIST OPERATIONS =====

func (s *templateService) List(ctx context.Context, filters repositories.TemplateFilters) (*TemplateListResponse, error) {
	templates, total, err := s.repo.Template().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	response := &TemplateListResponse{
		Templates: make([]*TemplateResponse, len(templates)),
		Total:     total,
		Page:      (filters.Offset / max(filters.Limit, 1)) + 1,
		Size:      filters.Limit,
	}
	for i, template := range templates {
		canDelete := filters.DoctorID != nil && template.DoctorID == *filters.DoctorID
		response.Templates[i] = &TemplateResponse{Template: template, CanDelete: canDelete}
	}

	return response, nil
}

func (s *templateService) ListAll(ctx context.Context) ([]*models.Template, error) {
	templates, err := s.repo.Template().ListAll(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// ===== STATISTICS =====

func (s *templateService) Stats(ctx context.Context, id uint) (*repositories.TemplateStats, error) {
	exists, err := s.repo.Template().ExistsByID(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check template existence: %w", err)
	}
	if !exists {
		return nil, ErrTemplateNotFound
	}

	stats, err := s.repo.Template().Stats(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get template stats: %w", err)
	}
	return stats, nil
}

func (s *templateService) DoctorStats(ctx context.Context, doctorID string) (*repositories.DoctorStats, error) {
	stats, err := s.repo.Template().DoctorStats(ctx, s.db, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor stats: %w", err)
	}
	return stats, nil
}
