package handlers

import (
	"net/http"

	"github.com/CareScope-Clinic/assessment-service/internal/services"
	"github.com/CareScope-Clinic/assessment-service/internal/utils"
	"github.com/CareScope-Clinic/assessment-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type CompletionHandler struct {
	BaseHandler
	completionService services.CompletionService
	validator         *validator.Validator
}

func NewCompletionHandler(completionService services.CompletionService, validator *validator.Validator, logger utils.Logger) *CompletionHandler {
	return &CompletionHandler{
		BaseHandler:       NewBaseHandler(logger),
		completionService: completionService,
		validator:         validator,
	}
}

// LoadForTaking loads an assignment with its questions and options
// @Summary Load assignment for taking
// @Description Resolves the assignment, template, questions and options for the taking form
// @Tags completions
// @Produce json
// @Param id path uint true "Assignment ID"
// @Success 200 {object} services.AssignmentForTaking
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /assignments/{id}/taking [get]
func (h *CompletionHandler) LoadForTaking(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Loading assignment for taking", "assignment_id", id)

	taking, err := h.completionService.LoadForTaking(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, taking)
}

// SubmitCompletion records a patient's answers and closes the assignment
// @Summary Submit completion
// @Description Computes the total score, records the result and flips the assignment to completed
// @Tags completions
// @Accept json
// @Produce json
// @Param completion body services.SubmitCompletionRequest true "Completion data"
// @Success 200 {object} services.CompletionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /completions [post]
func (h *CompletionHandler) SubmitCompletion(c *gin.Context) {
	var req services.SubmitCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Submitting completion", "assignment_id", req.AssignmentID)

	completion, err := h.completionService.Submit(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, completion)
}
