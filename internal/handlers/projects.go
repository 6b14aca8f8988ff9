package handlers

import (
	"net/http"

	"projecthub/backend/internal/services"
	"projecthub/backend/internal/worker"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	db             *gorm.DB
	projectService services.ProjectService
	queue          *worker.JobQueue
	uploadDir      string
}

func NewProjectHandler(db *gorm.DB, projectService services.ProjectService, queue *worker.JobQueue, uploadDir string) *ProjectHandler {
	return &ProjectHandler{db: db, projectService: projectService, queue: queue, uploadDir: uploadDir}
}

type ProjectRequest struct {
	ProjectName        string `json:"projectName" binding:"required"`
	ProjectDescription string `json:"projectDescription"`
	Category           string `json:"category" binding:"required"`
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields."})
		return
	}

	project, err := h.projectService.CreateProject(h.db, userID, req.ProjectName, req.ProjectDescription, req.Category)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Project created", "projectId": project.ID})
}

func (h *ProjectHandler) GetAllProjects(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projects, err := h.projectService.GetProjectsForUser(h.db, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(h.db, projectID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields."})
		return
	}

	err := h.projectService.UpdateProject(h.db, projectID, userID, req.ProjectName, req.ProjectDescription, req.Category)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project updated"})
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	filePaths, err := h.projectService.DeleteProject(h.db, projectID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	cleanupStoredFiles(h.queue, h.uploadDir, filePaths)

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}
