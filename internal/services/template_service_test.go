package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/CareScope-Clinic/assessment-service/internal/models"
	"github.com/CareScope-Clinic/assessment-service/internal/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTemplateService(repo *MockRepository) TemplateService {
	return NewTemplateService(repo, nil, testLogger(), validator.New(), nil)
}

func TestTemplateService_Create_DropsInvalidRows(t *testing.T) {
	repo := NewMockRepository()
	service := newTemplateService(repo)
	ctx := context.Background()

	req := &CreateTemplateRequest{
		Name:      "GAD Screen",
		Questions: []string{"Feeling nervous", "   ", "Trouble relaxing", ""},
		Options: []validator.OptionSpecRequest{
			{Text: "Never", ScoreValue: "0"},
			{Text: "", ScoreValue: "1"},
			{Text: "Sometimes", ScoreValue: "abc"},
			{Text: "Often", ScoreValue: "2"},
		},
	}

	resp, err := service.Create(ctx, req, "doctor-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if resp.QuestionCount != 2 {
		t.Errorf("Expected 2 stored questions, got %d", resp.QuestionCount)
	}
	if resp.OptionCount != 2 {
		t.Errorf("Expected 2 stored options, got %d", resp.OptionCount)
	}
	for _, option := range resp.Options {
		if option.Text != "Never" && option.Text != "Often" {
			t.Errorf("Unexpected option survived filtering: %q", option.Text)
		}
	}
}

func TestTemplateService_Create_RejectsUnusableInput(t *testing.T) {
	repo := NewMockRepository()
	service := newTemplateService(repo)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *CreateTemplateRequest
	}{
		{
			name: "blank name",
			req: &CreateTemplateRequest{
				Name:      "   ",
				Questions: []string{"Q1"},
				Options:   []validator.OptionSpecRequest{{Text: "A", ScoreValue: "1"}},
			},
		},
		{
			name: "no valid questions",
			req: &CreateTemplateRequest{
				Name:      "Empty",
				Questions: []string{"", "  "},
				Options:   []validator.OptionSpecRequest{{Text: "A", ScoreValue: "1"}},
			},
		},
		{
			name: "no valid options",
			req: &CreateTemplateRequest{
				Name:      "Empty",
				Questions: []string{"Q1"},
				Options:   []validator.OptionSpecRequest{{Text: "A", ScoreValue: "x"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(ctx, tt.req, "doctor-1")
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("Expected ValidationErrors, got %v", err)
			}
			if templates, _ := repo.Template().ListAll(ctx, nil); len(templates) != 0 {
				t.Errorf("Expected no templates stored, got %d", len(templates))
			}
		})
	}
}

func TestTemplateService_Create_CompensatesOnOptionFailure(t *testing.T) {
	repo := NewMockRepository()
	repo.store.failCreateOptions = true
	service := newTemplateService(repo)
	ctx := context.Background()

	req := &CreateTemplateRequest{
		Name:      "Doomed",
		Questions: []string{"Q1"},
		Options:   []validator.OptionSpecRequest{{Text: "A", ScoreValue: "1"}},
	}

	_, err := service.Create(ctx, req, "doctor-1")
	var se *StoreError
	if !errors.As(err, &se) {
		t.Fatalf("Expected StoreError, got %v", err)
	}

	// The compensating delete must have removed the header.
	templates, listErr := repo.Template().ListAll(ctx, nil)
	if listErr != nil {
		t.Fatalf("ListAll failed: %v", listErr)
	}
	if len(templates) != 0 {
		t.Errorf("Template header survived a failed option insert")
	}
}

func TestTemplateService_Create_CompensatesOnQuestionFailure(t *testing.T) {
	repo := NewMockRepository()
	repo.store.failCreateQuestions = true
	service := newTemplateService(repo)
	ctx := context.Background()

	req := &CreateTemplateRequest{
		Name:      "Doomed",
		Questions: []string{"Q1"},
		Options:   []validator.OptionSpecRequest{{Text: "A", ScoreValue: "1"}},
	}

	_, err := service.Create(ctx, req, "doctor-1")
	var se *StoreError
	if !errors.As(err, &se) {
		t.Fatalf("Expected StoreError, got %v", err)
	}

	templates, _ := repo.Template().ListAll(ctx, nil)
	if len(templates) != 0 {
		t.Errorf("Template header survived a failed question insert")
	}
	if len(repo.store.options) != 0 {
		t.Errorf("Options survived a failed question insert, got %d", len(repo.store.options))
	}
}

func TestTemplateService_Stats(t *testing.T) {
	repo := NewMockRepository()
	service := newTemplateService(repo)
	ctx := context.Background()

	resp, err := service.Create(ctx, &CreateTemplateRequest{
		Name:      "PHQ Screen",
		Questions: []string{"Q1", "Q2"},
		Options:   []validator.OptionSpecRequest{{Text: "Never", ScoreValue: "0"}, {Text: "Often", ScoreValue: "2"}},
	}, "doctor-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// One completed assignment with a scored result, one still pending.
	done := &models.Assignment{TemplateID: resp.ID, PatientID: 1, Status: models.AssignmentCompleted}
	if err := repo.Assignment().Create(ctx, nil, done); err != nil {
		t.Fatalf("Create assignment failed: %v", err)
	}
	repo.store.results = append(repo.store.results, &models.Result{AssignmentID: done.ID, TotalScore: 4})
	pending := &models.Assignment{TemplateID: resp.ID, PatientID: 2, Status: models.AssignmentAssigned}
	if err := repo.Assignment().Create(ctx, nil, pending); err != nil {
		t.Fatalf("Create assignment failed: %v", err)
	}

	stats, err := service.Stats(ctx, resp.ID)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalAssignments != 2 {
		t.Errorf("Expected 2 assignments, got %d", stats.TotalAssignments)
	}
	if stats.CompletedAssignments != 1 {
		t.Errorf("Expected 1 completed assignment, got %d", stats.CompletedAssignments)
	}
	if stats.AverageScore != 4 {
		t.Errorf("Expected average score 4, got %v", stats.AverageScore)
	}
	if stats.QuestionCount != 2 || stats.OptionCount != 2 {
		t.Errorf("Expected 2 questions and 2 options, got %d and %d", stats.QuestionCount, stats.OptionCount)
	}

	if _, err := service.Stats(ctx, resp.ID+100); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("Expected ErrTemplateNotFound for unknown template, got %v", err)
	}
}

func TestTemplateService_DoctorStats(t *testing.T) {
	repo := NewMockRepository()
	service := newTemplateService(repo)
	ctx := context.Background()

	mine, err := service.Create(ctx, &CreateTemplateRequest{
		Name:      "Mine",
		Questions: []string{"Q1"},
		Options:   []validator.OptionSpecRequest{{Text: "A", ScoreValue: "1"}},
	}, "doctor-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	theirs, err := service.Create(ctx, &CreateTemplateRequest{
		Name:      "Theirs",
		Questions: []string{"Q1"},
		Options:   []validator.OptionSpecRequest{{Text: "A", ScoreValue: "1"}},
	}, "doctor-2")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for _, seed := range []*models.Assignment{
		{TemplateID: mine.ID, PatientID: 1, Status: models.AssignmentAssigned},
		{TemplateID: mine.ID, PatientID: 2, Status: models.AssignmentCompleted},
		{TemplateID: theirs.ID, PatientID: 3, Status: models.AssignmentAssigned},
	} {
		if err := repo.Assignment().Create(ctx, nil, seed); err != nil {
			t.Fatalf("Create assignment failed: %v", err)
		}
	}

	stats, err := service.DoctorStats(ctx, "doctor-1")
	if err != nil {
		t.Fatalf("DoctorStats failed: %v", err)
	}
	if stats.TotalTemplates != 1 {
		t.Errorf("Expected 1 template, got %d", stats.TotalTemplates)
	}
	if stats.TotalAssignments != 2 {
		t.Errorf("Expected 2 assignments through own templates, got %d", stats.TotalAssignments)
	}
	if stats.PendingResults != 1 {
		t.Errorf("Expected 1 pending assignment, got %d", stats.PendingResults)
	}
}

func TestTemplateService_Delete(t *testing.T) {
	repo := NewMockRepository()
	service := newTemplateService(repo)
	ctx := context.Background()

	resp, err := service.Create(ctx, &CreateTemplateRequest{
		Name:      "Short",
		Questions: []string{"Q1"},
		Options:   []validator.OptionSpecRequest{{Text: "A", ScoreValue: "1"}},
	}, "doctor-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := service.Delete(ctx, resp.ID, "doctor-2"); err == nil {
		t.Error("Expected permission error for foreign doctor")
	}

	if err := service.Delete(ctx, resp.ID, "doctor-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := service.GetByID(ctx, resp.ID); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("Expected ErrTemplateNotFound after delete, got %v", err)
	}
}
