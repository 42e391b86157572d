package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/CareScope-Clinic/assessment-service/internal/config"
	"github.com/CareScope-Clinic/assessment-service/internal/models"
	"github.com/CareScope-Clinic/assessment-service/internal/repositories"
	"github.com/CareScope-Clinic/assessment-service/internal/services"
	"github.com/CareScope-Clinic/assessment-service/internal/utils"
	"github.com/CareScope-Clinic/assessment-service/internal/validator"
)

type HandlerManager struct {
	templateHandler   *TemplateHandler
	assignmentHandler *AssignmentHandler
	completionHandler *CompletionHandler
	historyHandler    *HistoryHandler
	patientHandler    *PatientHandler
	userHandler       *UserHandler
	authMiddleware    *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		templateHandler:   NewTemplateHandler(serviceManager.Template(), validator, logger),
		assignmentHandler: NewAssignmentHandler(serviceManager.Assignment(), serviceManager.Patient(), validator, logger),
		completionHandler: NewCompletionHandler(serviceManager.Completion(), validator, logger),
		historyHandler:    NewHistoryHandler(serviceManager.History(), serviceManager.Export(), logger),
		patientHandler:    NewPatientHandler(serviceManager.Patient(), serviceManager.Record(), validator, logger),
		userHandler:       NewUserHandler(userRepo, logger),
		authMiddleware:    authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Template routes
		templates := v1.Group("/templates")
		{
			// Authoring - Doctors and Admins only
			templates.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleDoctor, models.RoleAdmin), hm.templateHandler.CreateTemplate)
			templates.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleDoctor, models.RoleAdmin), hm.templateHandler.DeleteTemplate)

			// Viewing - all authenticated users
			templates.GET("", hm.templateHandler.ListTemplates)
			templates.GET("/:id", hm.templateHandler.GetTemplate)
			templates.GET("/:id/details", hm.templateHandler.GetTemplateWithDetails)

			// Statistics - Doctors and Admins only
			templates.GET("/:id/stats", hm.authMiddleware.RequireRoleMiddleware(models.RoleDoctor, models.RoleAdmin), hm.templateHandler.GetTemplateStats)
			templates.GET("/stats/mine", hm.authMiddleware.RequireRoleMiddleware(models.RoleDoctor, models.RoleAdmin), hm.templateHandler.GetMyStats)
		}

		// Assignment routes
		assignments := v1.Group("/assignments")
		{
			assignments.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleDoctor, models.RoleAdmin), hm.assignmentHandler.AssignTemplate)
			assignments.GET("/:id", hm.assignmentHandler.GetAssignment)

			// Taking flow
			assignments.GET("/:id/taking", hm.completionHandler.LoadForTaking)
		}

		// Completion submission
		v1.POST("/completions", hm.completionHandler.SubmitCompletion)

		// Patient routes
		patients := v1.Group("/patients")
		{
			// Overview - Doctors and Admins only
			patients.GET("/overview", hm.authMiddleware.RequireRoleMiddleware(models.RoleDoctor, models.RoleAdmin), hm.patientHandler.GetOverview)

			// Patient self-service routes
			patients.GET("/me/assignments", hm.authMiddleware.RequireRoleMiddleware(models.RolePatient), hm.assignmentHandler.ListMyAssignments)
			patients.POST("/me/moods", hm.authMiddleware.RequireRoleMiddleware(models.RolePatient), hm.patientHandler.LogMood)

			patients.GET("/:patient_id", hm.patientHandler.GetPatient)
			patients.GET("/:patient_id/assignments", hm.assignmentHandler.ListAssignmentsForPatient)

			// Score history
			patients.GET("/:patient_id/history", hm.historyHandler.GetAllHistories)
			patients.GET("/:patient_id/history/export", hm.authMiddleware.RequireRoleMiddleware(models.RoleDoctor, models.RoleAdmin), hm.historyHandler.ExportHistory)
			patients.GET("/:patient_id/history/:template_id", hm.historyHandler.GetHistory)

			// Clinical record - Doctors and Admins only
			patients.PUT("/:patient_id/record", hm.authMiddleware.RequireRoleMiddleware(models.RoleDoctor, models.RoleAdmin), hm.patientHandler.SaveRecord)
			patients.GET("/:patient_id/record", hm.authMiddleware.RequireRoleMiddleware(models.RoleDoctor, models.RoleAdmin), hm.patientHandler.GetRecord)

			patients.GET("/:patient_id/moods", hm.patientHandler.GetMoodHistory)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("", hm.userHandler.ListUsers)
			users.GET("/:id", hm.userHandler.GetUser)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "assessment-service",
		})
	})
}
