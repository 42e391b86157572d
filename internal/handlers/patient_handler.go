package handlers

import (
	"net/http"

	"github.com/CareScope-Clinic/assessment-service/internal/services"
	"github.com/CareScope-Clinic/assessment-service/internal/utils"
	"github.com/CareScope-Clinic/assessment-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	BaseHandler
	patientService services.PatientService
	recordService  services.RecordService
	validator      *validator.Validator
}

func NewPatientHandler(patientService services.PatientService, recordService services.RecordService, validator *validator.Validator, logger utils.Logger) *PatientHandler {
	return &PatientHandler{
		BaseHandler:    NewBaseHandler(logger),
		patientService: patientService,
		recordService:  recordService,
		validator:      validator,
	}
}

// GetOverview lists all patients with their alert-derived status badge
// @Summary Patient overview
// @Tags patients
// @Produce json
// @Success 200 {object} services.PatientListResponse
// @Router /patients [get]
func (h *PatientHandler) GetOverview(c *gin.Context) {
	h.LogRequest(c, "Getting patient overview")

	overview, err := h.patientService.Overview(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// GetPatient retrieves a patient by ID
// @Summary Get patient
// @Tags patients
// @Produce json
// @Param patient_id path uint true "Patient ID"
// @Success 200 {object} services.PatientResponse
// @Failure 404 {object} ErrorResponse
// @Router /patients/{patient_id} [get]
func (h *PatientHandler) GetPatient(c *gin.Context) {
	id := h.parseIDParam(c, "patient_id")
	if id == 0 {
		return
	}

	patient, err := h.patientService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, patient)
}

// SaveRecord upserts a patient's clinical notes and treatment plan
// @Summary Save patient record
// @Tags patients
// @Accept json
// @Produce json
// @Param patient_id path uint true "Patient ID"
// @Param record body services.RecordSaveRequest true "Record data"
// @Success 200 {object} services.RecordResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /patients/{patient_id}/record [put]
func (h *PatientHandler) SaveRecord(c *gin.Context) {
	patientID := h.parseIDParam(c, "patient_id")
	if patientID == 0 {
		return
	}

	var req services.RecordSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	req.PatientID = patientID

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	h.LogRequest(c, "Saving patient record", "patient_id", req.PatientID)

	record, err := h.recordService.Save(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetRecord retrieves a patient's clinical record
// @Summary Get patient record
// @Tags patients
// @Produce json
// @Param patient_id path uint true "Patient ID"
// @Success 200 {object} services.RecordResponse
// @Failure 404 {object} ErrorResponse
// @Router /patients/{patient_id}/record [get]
func (h *PatientHandler) GetRecord(c *gin.Context) {
	id := h.parseIDParam(c, "patient_id")
	if id == 0 {
		return
	}

	record, err := h.recordService.GetByPatient(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// LogMood records a mood entry for the calling patient
// @Summary Log mood
// @Tags patients
// @Accept json
// @Produce json
// @Param mood body services.MoodLogRequest true "Mood data"
// @Success 201 {object} models.MoodLog
// @Failure 400 {object} ErrorResponse
// @Router /patients/me/moods [post]
func (h *PatientHandler) LogMood(c *gin.Context) {
	var req services.MoodLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	patient, err := h.patientService.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	log, err := h.recordService.LogMood(c.Request.Context(), &req, patient.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, log)
}

// GetMoodHistory lists a patient's mood entries
// @Summary Mood history
// @Tags patients
// @Produce json
// @Param patient_id path uint true "Patient ID"
// @Success 200 {array} models.MoodLog
// @Router /patients/{patient_id}/moods [get]
func (h *PatientHandler) GetMoodHistory(c *gin.Context) {
	id := h.parseIDParam(c, "patient_id")
	if id == 0 {
		return
	}

	logs, err := h.recordService.MoodHistory(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, logs)
}
