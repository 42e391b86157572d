package handlers

import (
	"net/http"

	"github.com/CareScope-Clinic/assessment-service/internal/services"
	"github.com/CareScope-Clinic/assessment-service/internal/utils"
	"github.com/CareScope-Clinic/assessment-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	BaseHandler
	assignmentService services.AssignmentService
	patientService    services.PatientService
	validator         *validator.Validator
}

func NewAssignmentHandler(assignmentService services.AssignmentService, patientService services.PatientService, validator *validator.Validator, logger utils.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assignmentService: assignmentService,
		patientService:    patientService,
		validator:         validator,
	}
}

// AssignTemplate issues a template to a patient
// @Summary Assign template
// @Description Issues a template to a patient; at most one active assignment per pair
// @Tags assignments
// @Accept json
// @Produce json
// @Param assignment body services.AssignRequest true "Assignment data"
// @Success 201 {object} services.AssignmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /assignments [post]
func (h *AssignmentHandler) AssignTemplate(c *gin.Context) {
	var req services.AssignRequest
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

	h.LogRequest(c, "Assigning template", "template_id", req.TemplateID)

	assignment, err := h.assignmentService.Assign(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// GetAssignment retrieves an assignment by ID
// @Summary Get assignment
// @Tags assignments
// @Produce json
// @Param id path uint true "Assignment ID"
// @Success 200 {object} services.AssignmentResponse
// @Failure 404 {object} ErrorResponse
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	assignment, err := h.assignmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// ListAssignmentsForPatient lists a patient's active assignments
// @Summary List active assignments
// @Description Returns all assigned-status assignments with template names resolved
// @Tags assignments
// @Produce json
// @Param patient_id path uint true "Patient ID"
// @Success 200 {array} services.AssignmentResponse
// @Router /patients/{patient_id}/assignments [get]
func (h *AssignmentHandler) ListAssignmentsForPatient(c *gin.Context) {
	patientID := h.parseIDParam(c, "patient_id")
	if patientID == 0 {
		return
	}

	assignments, err := h.assignmentService.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

// ListMyAssignments lists the calling patient's active assignments
// @Summary List my assignments
// @Tags assignments
// @Produce json
// @Success 200 {array} services.AssignmentResponse
// @Router /patients/me/assignments [get]
func (h *AssignmentHandler) ListMyAssignments(c *gin.Context) {
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

	assignments, err := h.assignmentService.ListForPatient(c.Request.Context(), patient.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}
