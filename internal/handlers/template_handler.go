package handlers

import (
	"net/http"

	"github.com/CareScope-Clinic/assessment-service/internal/repositories"
	"github.com/CareScope-Clinic/assessment-service/internal/services"
	"github.com/CareScope-Clinic/assessment-service/internal/utils"
	"github.com/CareScope-Clinic/assessment-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	BaseHandler
	templateService services.TemplateService
	validator       *validator.Validator
}

func NewTemplateHandler(templateService services.TemplateService, validator *validator.Validator, logger utils.Logger) *TemplateHandler {
	return &TemplateHandler{
		BaseHandler:     NewBaseHandler(logger),
		templateService: templateService,
		validator:       validator,
	}
}

// CreateTemplate creates a new assessment template
// @Summary Create template
// @Description Creates an assessment template with questions and scored options
// @Tags templates
// @Accept json
// @Produce json
// @Param template body services.CreateTemplateRequest true "Template data"
// @Success 201 {object} services.TemplateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /templates [post]
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req services.CreateTemplateRequest
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

	template, err := h.templateService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, template)
}

// GetTemplate retrieves a template by ID
// @Summary Get template
// @Tags templates
// @Produce json
// @Param id path uint true "Template ID"
// @Success 200 {object} services.TemplateResponse
// @Failure 404 {object} ErrorResponse
// @Router /templates/{id} [get]
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	template, err := h.templateService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, template)
}

// GetTemplateWithDetails retrieves a template with its questions and options
// @Summary Get template with details
// @Tags templates
// @Produce json
// @Param id path uint true "Template ID"
// @Success 200 {object} services.TemplateResponse
// @Failure 404 {object} ErrorResponse
// @Router /templates/{id}/details [get]
func (h *TemplateHandler) GetTemplateWithDetails(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Getting template with details", "template_id", id)

	template, err := h.templateService.GetByIDWithDetails(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, template)
}

// ListTemplates lists templates, newest first
// @Summary List templates
// @Tags templates
// @Produce json
// @Param mine query bool false "Only templates authored by the caller"
// @Success 200 {object} services.TemplateListResponse
// @Router /templates [get]
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	filters := repositories.TemplateFilters{
		SortBy:    "created_at",
		SortOrder: "desc",
	}

	if c.Query("mine") == "true" {
		userID, err := GetUserIDFromContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
			return
		}
		filters.DoctorID = &userID
	}

	templates, err := h.templateService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, templates)
}

// GetTemplateStats reports assignment and scoring aggregates for a template
// @Summary Get template stats
// @Tags templates
// @Produce json
// @Param id path uint true "Template ID"
// @Success 200 {object} repositories.TemplateStats
// @Failure 404 {object} ErrorResponse
// @Router /templates/{id}/stats [get]
func (h *TemplateHandler) GetTemplateStats(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	stats, err := h.templateService.Stats(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetMyStats reports template and assignment aggregates for the calling doctor
// @Summary Get caller's authoring stats
// @Tags templates
// @Produce json
// @Success 200 {object} repositories.DoctorStats
// @Failure 401 {object} ErrorResponse
// @Router /templates/stats/mine [get]
func (h *TemplateHandler) GetMyStats(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	stats, err := h.templateService.DoctorStats(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// DeleteTemplate deletes a template and its questions and options
// @Summary Delete template
// @Tags templates
// @Param id path uint true "Template ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /templates/{id} [delete]
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting template", "template_id", id)

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	if err := h.templateService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
