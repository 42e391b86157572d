package services

import (
	"context"
	"testing"

	"github.com/CareScope-Clinic/assessment-service/internal/models"
	"github.com/CareScope-Clinic/assessment-service/internal/validator"
)

func seedAlert(repo *MockRepository, patientID uint, severity models.AlertSeverity) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	id := repo.store.id()
	repo.store.alerts = append(repo.store.alerts, &models.Alert{ID: id, PatientID: patientID, Severity: severity})
}

func TestPatientService_Overview_StatusBadges(t *testing.T) {
	repo := NewMockRepository()
	service := NewPatientService(repo, nil, testLogger())
	ctx := context.Background()

	critical := seedPatient(repo, "Critical Case")
	watch := seedPatient(repo, "Watch Case")
	stable := seedPatient(repo, "Stable Case")

	seedAlert(repo, critical, models.SeverityOrange)
	seedAlert(repo, critical, models.SeverityRed)
	seedAlert(repo, watch, models.SeverityOrange)
	seedAlert(repo, watch, models.SeverityYellow)
	seedAlert(repo, stable, models.SeverityYellow)

	overview, err := service.Overview(ctx)
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	if len(overview.Patients) != 3 {
		t.Fatalf("Expected 3 patients, got %d", len(overview.Patients))
	}

	want := map[uint]models.PatientStatus{
		critical: models.PatientCritical,
		watch:    models.PatientWatch,
		stable:   models.PatientStable,
	}
	for _, patient := range overview.Patients {
		if patient.Status != want[patient.ID] {
			t.Errorf("Patient %d: expected status %s, got %s", patient.ID, want[patient.ID], patient.Status)
		}
	}
}

func TestPatientService_SingleFetchStatusMatchesOverview(t *testing.T) {
	repo := NewMockRepository()
	service := NewPatientService(repo, nil, testLogger())
	ctx := context.Background()

	id := seedPatient(repo, "Alerted Case")
	seedAlert(repo, id, models.SeverityRed)

	overview, err := service.Overview(ctx)
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	var overviewStatus models.PatientStatus
	for _, patient := range overview.Patients {
		if patient.ID == id {
			overviewStatus = patient.Status
		}
	}
	if overviewStatus != models.PatientCritical {
		t.Fatalf("Overview: expected status %s, got %s", models.PatientCritical, overviewStatus)
	}

	byID, err := service.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if byID.Status != overviewStatus {
		t.Errorf("GetByID status %s does not match overview status %s", byID.Status, overviewStatus)
	}

	byUser, err := service.GetByUserID(ctx, "user-Alerted Case")
	if err != nil {
		t.Fatalf("GetByUserID failed: %v", err)
	}
	if byUser.Status != overviewStatus {
		t.Errorf("GetByUserID status %s does not match overview status %s", byUser.Status, overviewStatus)
	}
}

func TestPatientService_Overview_FallbackMatchesJoined(t *testing.T) {
	repo := NewMockRepository()
	service := NewPatientService(repo, nil, testLogger())
	ctx := context.Background()

	first := seedPatient(repo, "P1")
	seedPatient(repo, "P2")
	seedAlert(repo, first, models.SeverityRed)

	joined, err := service.Overview(ctx)
	if err != nil {
		t.Fatalf("Joined Overview failed: %v", err)
	}

	repo.store.failJoined = true
	fallback, err := service.Overview(ctx)
	if err != nil {
		t.Fatalf("Fallback Overview failed: %v", err)
	}

	if len(joined.Patients) != len(fallback.Patients) {
		t.Fatalf("Path results differ: joined %d, fallback %d", len(joined.Patients), len(fallback.Patients))
	}
	for i := range joined.Patients {
		if joined.Patients[i].ID != fallback.Patients[i].ID {
			t.Errorf("Patient %d: id mismatch", i)
		}
		if joined.Patients[i].Status != fallback.Patients[i].Status {
			t.Errorf("Patient %d: status mismatch joined %s fallback %s",
				i, joined.Patients[i].Status, fallback.Patients[i].Status)
		}
	}
}

func TestRecordService_Save_Upsert(t *testing.T) {
	repo := NewMockRepository()
	service := NewRecordService(repo, nil, testLogger(), validator.New())
	ctx := context.Background()

	patientID := seedPatient(repo, "P1")

	created, err := service.Save(ctx, &RecordSaveRequest{
		PatientID:     patientID,
		Notes:         "initial intake",
		TreatmentPlan: "weekly sessions",
	}, "doctor-1")
	if err != nil {
		t.Fatalf("First save failed: %v", err)
	}

	updated, err := service.Save(ctx, &RecordSaveRequest{
		PatientID:     patientID,
		Notes:         "second visit",
		TreatmentPlan: "biweekly sessions",
	}, "doctor-2")
	if err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	// Same row updated, not a second insert.
	if updated.ID != created.ID {
		t.Errorf("Expected update of record %d, got new record %d", created.ID, updated.ID)
	}
	stored, err := service.GetByPatient(ctx, patientID)
	if err != nil {
		t.Fatalf("GetByPatient failed: %v", err)
	}
	if stored.Notes != "second visit" || stored.DoctorID != "doctor-2" {
		t.Errorf("Record not updated in place: %+v", stored.PatientRecord)
	}
}

func TestRecordService_LogMood(t *testing.T) {
	repo := NewMockRepository()
	service := NewRecordService(repo, nil, testLogger(), validator.New())
	ctx := context.Background()

	patientID := seedPatient(repo, "P1")

	if _, err := service.LogMood(ctx, &MoodLogRequest{MoodScore: 6}, patientID); err == nil {
		t.Error("Expected validation error for out-of-range mood score")
	}

	log, err := service.LogMood(ctx, &MoodLogRequest{MoodScore: 4, Note: "better today"}, patientID)
	if err != nil {
		t.Fatalf("LogMood failed: %v", err)
	}
	if log.ID == 0 {
		t.Error("Expected persisted mood log to have an id")
	}

	history, err := service.MoodHistory(ctx, patientID)
	if err != nil {
		t.Fatalf("MoodHistory failed: %v", err)
	}
	if len(history) != 1 || history[0].MoodScore != 4 {
		t.Errorf("Unexpected mood history: %+v", history)
	}
}
