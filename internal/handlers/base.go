package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/CareScope-Clinic/assessment-service/internal/services"
	"github.com/CareScope-Clinic/assessment-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data interface{} `json:"data"`
}

// BaseHandler carries the pieces every handler needs.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs with the request-scoped logger when one is attached.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.LoggerFromContext(c, h.logger).Info(msg, args...)
}

// LogError logs with the request-scoped logger when one is attached.
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	utils.LoggerFromContext(c, h.logger).Error(msg, append(args, "error", err)...)
}

// parseIDParam parses a positive uint path parameter; on failure it writes
// the 400 response itself and returns 0.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
			Details: raw,
		})
		return 0
	}
	return uint(id)
}

// handleServiceError maps service-layer errors onto HTTP responses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs services.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs,
		})
		return
	}

	if services.IsConflictError(err) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: err.Error(),
		})
		return
	}

	if services.IsNotFoundError(err) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})
		return
	}

	if errors.Is(err, services.ErrTemplateIncomplete) || errors.Is(err, services.ErrNoAnswers) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: err.Error(),
		})
		return
	}

	var permErr *services.PermissionError
	if errors.As(err, &permErr) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: permErr.Error(),
		})
		return
	}

	var storeErr *services.StoreError
	if errors.As(err, &storeErr) {
		utils.LoggerFromContext(c, h.logger).Error("Store error", "op", storeErr.Op, "error", storeErr.Err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: storeErr.Error(),
		})
		return
	}

	utils.LoggerFromContext(c, h.logger).Error("Unhandled service error", "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Message: "Internal server error",
	})
}
