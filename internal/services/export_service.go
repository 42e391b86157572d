package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CareScope-Clinic/assessment-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

type exportService struct {
	repo    repositories.Repository
	history HistoryService
	logger  *slog.Logger
}

func NewExportService(repo repositories.Repository, history HistoryService, logger *slog.Logger) ExportService {
	return &exportService{
		repo:    repo,
		history: history,
		logger:  logger,
	}
}

// ExportPatientHistory renders one worksheet per template with that
// template's chronological score series. Templates without results are
// skipped, matching the on-screen history view.
func (s *exportService) ExportPatientHistory(ctx context.Context, patientID uint) ([]byte, error) {
	s.logger.Info("Exporting patient history", "patient_id", patientID)

	histories, err := s.history.GetAllForPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to collect histories: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Error("Failed to close workbook", "error", err)
		}
	}()

	for i, history := range histories {
		sheet := sheetNameFor(history.TemplateName, i)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("failed to create sheet: %w", err)
			}
		}

		if err := f.SetCellValue(sheet, "A1", "Recorded At"); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, "B1", "Total Score"); err != nil {
			return nil, err
		}

		for row, point := range history.Points {
			cell := fmt.Sprintf("A%d", row+2)
			if err := f.SetCellValue(sheet, cell, point.RecordedAt.Format("2006-01-02 15:04:05")); err != nil {
				return nil, err
			}
			cell = fmt.Sprintf("B%d", row+2)
			if err := f.SetCellValue(sheet, cell, point.TotalScore); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

// sheetNameFor keeps sheet names inside the 31-character xlsx limit and
// unique across templates with similar names. Truncation counts runes so
// a multibyte name is never cut mid-character.
func sheetNameFor(name string, index int) string {
	suffix := fmt.Sprintf(" (%d)", index+1)
	limit := 31 - len(suffix)
	if runes := []rune(name); len(runes) > limit {
		name = string(runes[:limit])
	}
	return name + suffix
}
