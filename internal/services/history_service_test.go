package services

import (
	"context"
	"testing"
	"time"

	"github.com/CareScope-Clinic/assessment-service/internal/models"
)

func newHistoryService(repo *MockRepository) HistoryService {
	return NewHistoryService(repo, nil, testLogger())
}

// seedResult stores a result with an explicit timestamp so ordering tests
// can interleave insertion order and recorded time.
func seedResult(t *testing.T, repo *MockRepository, assignmentID uint, total int, at time.Time) {
	t.Helper()

	err := repo.Result().Create(context.Background(), nil, &models.Result{
		AssignmentID: assignmentID,
		TotalScore:   total,
		CreatedAt:    at,
	})
	if err != nil {
		t.Fatalf("seed result failed: %v", err)
	}
}

func TestHistoryService_GetHistory_ChronologicalOrder(t *testing.T) {
	repo := NewMockRepository()
	service := newHistoryService(repo)
	ctx := context.Background()

	patientID := seedPatient(repo, "P1")
	templateID := seedTemplate(t, repo, "PHQ-Like")
	assignmentID := seedAssignment(t, repo, templateID, patientID)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// Inserted out of chronological order on purpose.
	seedResult(t, repo, assignmentID, 5, base.Add(48*time.Hour))
	seedResult(t, repo, assignmentID, 2, base)
	seedResult(t, repo, assignmentID, 3, base.Add(24*time.Hour))

	points, err := service.GetHistory(ctx, templateID, patientID)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(points))
	}

	wantScores := []int{2, 3, 5}
	for i, point := range points {
		if point.TotalScore != wantScores[i] {
			t.Errorf("Point %d: expected score %d, got %d", i, wantScores[i], point.TotalScore)
		}
		if i > 0 && point.RecordedAt.Before(points[i-1].RecordedAt) {
			t.Errorf("Point %d: timestamps not in non-decreasing order", i)
		}
	}
}

func TestHistoryService_GetHistory_FallbackMatchesJoined(t *testing.T) {
	repo := NewMockRepository()
	service := newHistoryService(repo)
	ctx := context.Background()

	patientID := seedPatient(repo, "P1")
	templateID := seedTemplate(t, repo, "PHQ-Like")
	assignmentID := seedAssignment(t, repo, templateID, patientID)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	seedResult(t, repo, assignmentID, 4, base.Add(time.Hour))
	seedResult(t, repo, assignmentID, 1, base)

	joined, err := service.GetHistory(ctx, templateID, patientID)
	if err != nil {
		t.Fatalf("Joined GetHistory failed: %v", err)
	}

	repo.store.failJoined = true
	fallback, err := service.GetHistory(ctx, templateID, patientID)
	if err != nil {
		t.Fatalf("Fallback GetHistory failed: %v", err)
	}

	if len(joined) != len(fallback) {
		t.Fatalf("Path results differ in length: joined %d, fallback %d", len(joined), len(fallback))
	}
	for i := range joined {
		if joined[i] != fallback[i] {
			t.Errorf("Point %d differs between paths: joined %+v fallback %+v", i, joined[i], fallback[i])
		}
	}
}

func TestHistoryService_GetAllForPatient_OmitsEmptySeries(t *testing.T) {
	repo := NewMockRepository()
	service := newHistoryService(repo)
	ctx := context.Background()

	patientID := seedPatient(repo, "P1")
	scoredTemplate := seedTemplate(t, repo, "PHQ-Like")
	seedTemplate(t, repo, "Untaken")

	assignmentID := seedAssignment(t, repo, scoredTemplate, patientID)
	seedResult(t, repo, assignmentID, 7, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	histories, err := service.GetAllForPatient(ctx, patientID)
	if err != nil {
		t.Fatalf("GetAllForPatient failed: %v", err)
	}

	if len(histories) != 1 {
		t.Fatalf("Expected 1 history (empty series omitted), got %d", len(histories))
	}
	if histories[0].TemplateID != scoredTemplate {
		t.Errorf("Expected template %d, got %d", scoredTemplate, histories[0].TemplateID)
	}
	if histories[0].TemplateName != "PHQ-Like" {
		t.Errorf("Expected name PHQ-Like, got %q", histories[0].TemplateName)
	}
	if len(histories[0].Points) != 1 || histories[0].Points[0].TotalScore != 7 {
		t.Errorf("Unexpected points: %+v", histories[0].Points)
	}
}
