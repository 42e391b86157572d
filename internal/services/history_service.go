package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/CareScope-Clinic/assessment-service/internal/models"
	"github.com/CareScope-Clinic/assessment-service/internal/repositories"
	"gorm.io/gorm"
)

type historyService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewHistoryService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) HistoryService {
	return &historyService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// GetHistory returns the chronological (timestamp, total) series of all
// results belonging to assignments of the given (template, patient) pair.
// The joined results query is the primary path; if it fails, matching
// assignment identifiers are fetched first and results are filtered by
// that set, yielding the identical series.
func (s *historyService) GetHistory(ctx context.Context, templateID, patientID uint) ([]models.ScorePoint, error) {
	results, err := s.repo.Result().ListByTemplateAndPatient(ctx, s.db, templateID, patientID)
	if err != nil {
		s.logger.Warn("Joined history retrieval failed, falling back to decomposed queries",
			"template_id", templateID, "patient_id", patientID, "error", err)

		results, err = s.historyDecomposed(ctx, templateID, patientID)
		if err != nil {
			return nil, NewStoreError("result.history", err)
		}
	}

	points := make([]models.ScorePoint, len(results))
	for i, result := range results {
		points[i] = models.ScorePoint{
			RecordedAt: result.CreatedAt,
			TotalScore: result.TotalScore,
		}
	}
	return points, nil
}

func (s *historyService) historyDecomposed(ctx context.Context, templateID, patientID uint) ([]*models.Result, error) {
	assignmentIDs, err := s.repo.Assignment().IDsByTemplateAndPatient(ctx, s.db, templateID, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignment ids: %w", err)
	}
	if len(assignmentIDs) == 0 {
		return nil, nil
	}

	results, err := s.repo.Result().ListByAssignmentIDs(ctx, s.db, assignmentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch results by assignment ids: %w", err)
	}

	// The joined path orders in the store; match it here.
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.Before(results[j].CreatedAt)
	})
	return results, nil
}

// GetAllForPatient builds one score series per template; templates with no
// recorded results are omitted entirely.
func (s *historyService) GetAllForPatient(ctx context.Context, patientID uint) ([]*TemplateHistory, error) {
	templates, err := s.repo.Template().ListAll(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	histories := make([]*TemplateHistory, 0, len(templates))
	for _, template := range templates {
		points, err := s.GetHistory(ctx, template.ID, patientID)
		if err != nil {
			return nil, err
		}
		if len(points) == 0 {
			continue
		}
		histories = append(histories, &TemplateHistory{
			TemplateID:   template.ID,
			TemplateName: template.Name,
			Points:       points,
		})
	}
	return histories, nil
}
