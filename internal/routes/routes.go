package routes

import (
	"time"

	"projecthub/backend/internal/config"
	"projecthub/backend/internal/handlers"
	"projecthub/backend/internal/middleware"
	"projecthub/backend/internal/monitoring"
	"projecthub/backend/internal/services"
	"projecthub/backend/internal/worker"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter wires the full API surface. The queue is nil when redis is
// unavailable; handlers fall back to inline cleanup and skip notifications.
func SetupRouter(cfg *config.Config, db *gorm.DB, queue *worker.JobQueue) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryWithLog())
	router.Use(monitoring.MetricsMiddleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit))
	}

	access := services.NewAccessService()
	authService := services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.BCryptCost)
	projectService := services.NewProjectService(access)
	taskService := services.NewTaskService(access)
	memberService := services.NewMemberService(access)
	attachmentService := services.NewAttachmentService(access)

	authHandler := handlers.NewAuthHandler(db, authService)
	projectHandler := handlers.NewProjectHandler(db, projectService, queue, cfg.Storage.UploadDir)
	taskHandler := handlers.NewTaskHandler(db, taskService, queue, cfg.Storage.UploadDir)
	memberHandler := handlers.NewMemberHandler(db, memberService)
	invitationHandler := handlers.NewInvitationHandler(db, memberService, queue)
	attachmentHandler := handlers.NewAttachmentHandler(db, attachmentService, queue, cfg.Storage.UploadDir, cfg.Storage.MaxUploadSize)

	router.GET("/health", monitoring.HealthHandler())
	router.GET("/health/live", monitoring.LivenessHandler())
	router.GET("/metrics", monitoring.MetricsHandler())

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.AuthRequired(cfg.Auth.JWTSecret), authHandler.Me)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(cfg.Auth.JWTSecret))

	projects := authed.Group("/projects")
	{
		projects.POST("", projectHandler.CreateProject)
		projects.GET("", projectHandler.GetAllProjects)
		projects.GET("/:id", projectHandler.GetProject)
		projects.PUT("/:id", projectHandler.UpdateProject)
		projects.DELETE("/:id", projectHandler.DeleteProject)
	}

	tasks := authed.Group("/tasks")
	{
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("", taskHandler.GetAllTasks)
		tasks.GET("/me", taskHandler.GetUserTasks)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
		tasks.GET("/:id/assignees", taskHandler.GetTaskAssignees)
		tasks.POST("/:id/assignees", taskHandler.AssignUser)
		tasks.DELETE("/:id/assignees/:userId", taskHandler.UnassignUser)
	}

	members := authed.Group("/project-members")
	{
		members.POST("/:id/members", memberHandler.AddMember)
		members.GET("/:id/members", memberHandler.GetMembers)
		members.DELETE("/:id/members/:userId", memberHandler.RemoveMember)
	}

	invitations := authed.Group("/project-invitations")
	{
		invitations.GET("/me", invitationHandler.GetMyInvitations)
		invitations.POST("/:id/invitations", invitationHandler.SendInvitation)
		invitations.PUT("/:id/accept", invitationHandler.AcceptInvitation)
		invitations.DELETE("/:id/decline", invitationHandler.DeclineInvitation)
	}

	attachments := authed.Group("/attachments")
	{
		attachments.POST("", attachmentHandler.UploadAttachment)
		attachments.GET("", attachmentHandler.GetAllAttachments)
		attachments.GET("/:id/download", attachmentHandler.DownloadAttachment)
		attachments.DELETE("/:id", attachmentHandler.DeleteAttachment)
	}

	return router
}
