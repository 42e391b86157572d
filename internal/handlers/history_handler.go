package handlers

import (
	"fmt"
	"net/http"

	"github.com/CareScope-Clinic/assessment-service/internal/services"
	"github.com/CareScope-Clinic/assessment-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	BaseHandler
	historyService services.HistoryService
	exportService  services.ExportService
}

func NewHistoryHandler(historyService services.HistoryService, exportService services.ExportService, logger utils.Logger) *HistoryHandler {
	return &HistoryHandler{
		BaseHandler:    NewBaseHandler(logger),
		historyService: historyService,
		exportService:  exportService,
	}
}

// GetHistory returns the score series for one (template, patient) pair
// @Summary Get score history
// @Tags history
// @Produce json
// @Param patient_id path uint true "Patient ID"
// @Param template_id path uint true "Template ID"
// @Success 200 {array} models.ScorePoint
// @Router /patients/{patient_id}/history/{template_id} [get]
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	patientID := h.parseIDParam(c, "patient_id")
	if patientID == 0 {
		return
	}
	templateID := h.parseIDParam(c, "template_id")
	if templateID == 0 {
		return
	}

	points, err := h.historyService.GetHistory(c.Request.Context(), templateID, patientID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, points)
}

// GetAllHistories returns one score series per template with results
// @Summary Get all score histories
// @Description Templates with no recorded results are omitted
// @Tags history
// @Produce json
// @Param patient_id path uint true "Patient ID"
// @Success 200 {array} services.TemplateHistory
// @Router /patients/{patient_id}/history [get]
func (h *HistoryHandler) GetAllHistories(c *gin.Context) {
	patientID := h.parseIDParam(c, "patient_id")
	if patientID == 0 {
		return
	}

	h.LogRequest(c, "Getting all histories", "patient_id", patientID)

	histories, err := h.historyService.GetAllForPatient(c.Request.Context(), patientID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, histories)
}

// ExportHistory downloads a patient's score history as an xlsx workbook
// @Summary Export score history
// @Tags history
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param patient_id path uint true "Patient ID"
// @Success 200 {file} binary
// @Router /patients/{patient_id}/history/export [get]
func (h *HistoryHandler) ExportHistory(c *gin.Context) {
	patientID := h.parseIDParam(c, "patient_id")
	if patientID == 0 {
		return
	}

	h.LogRequest(c, "Exporting history", "patient_id", patientID)

	data, err := h.exportService.ExportPatientHistory(c.Request.Context(), patientID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("patient-%d-history.xlsx", patientID)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
