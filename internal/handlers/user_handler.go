package handlers

import (
	"net/http"
	"strconv"

	"github.com/CareScope-Clinic/assessment-service/internal/repositories"
	"github.com/CareScope-Clinic/assessment-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	BaseHandler
	userRepo repositories.UserRepository
}

func NewUserHandler(userRepo repositories.UserRepository, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		userRepo:    userRepo,
	}
}

// ListUsers lists identity accounts, optionally filtered by name or email
// @Summary List users
// @Tags users
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Param q query string false "Search query (name or email)"
// @Success 200 {object} map[string]interface{} "User list response"
// @Failure 500 {object} ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	h.LogRequest(c, "Listing users")

	filters := h.parseUserFilters(c)

	users, total, err := h.userRepo.List(c.Request.Context(), filters)
	if err != nil {
		h.LogError(c, err, "Failed to list users")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to list users",
			Details: err.Error(),
		})
		return
	}

	page := (filters.Offset / max(filters.Limit, 1)) + 1

	c.JSON(http.StatusOK, map[string]interface{}{
		"users": users,
		"total": total,
		"page":  page,
		"size":  filters.Limit,
	})
}

// GetUser retrieves a user by ID
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "User ID is required",
		})
		return
	}

	h.LogRequest(c, "Getting user", "user_id", userID)

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.LogError(c, err, "Failed to get user")
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "User not found",
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) parseUserFilters(c *gin.Context) repositories.UserFilters {
	page := 1
	size := 10

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if sizeStr := c.Query("size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
			size = s
		}
	}

	return repositories.UserFilters{
		Limit:  size,
		Offset: (page - 1) * size,
		Query:  c.Query("q"),
	}
}
