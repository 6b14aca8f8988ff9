package handlers

import (
	"log"
	"net/http"
	"time"

	"projecthub/backend/internal/services"
	"projecthub/backend/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
	queue       *worker.JobQueue
	uploadDir   string
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService, queue *worker.JobQueue, uploadDir string) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService, queue: queue, uploadDir: uploadDir}
}

type CreateTaskRequest struct {
	ProjectID       string   `json:"projectId" binding:"required"`
	TaskName        string   `json:"taskName" binding:"required"`
	TaskDescription string   `json:"taskDescription"`
	StartDate       string   `json:"startDate"`
	DueDate         string   `json:"dueDate"`
	Status          string   `json:"status"`
	Priority        int      `json:"priority"`
	Assignees       []string `json:"assignees"`
}

type UpdateTaskRequest struct {
	TaskName        string    `json:"taskName" binding:"required"`
	TaskDescription string    `json:"taskDescription"`
	StartDate       string    `json:"startDate"`
	DueDate         string    `json:"dueDate"`
	Status          string    `json:"status"`
	Priority        int       `json:"priority"`
	Assignees       *[]string `json:"assignees"`
}

// parseAssigneeIDs drops malformed ids the same way non-member ids are
// dropped later: logged, not fatal to the request.
func parseAssigneeIDs(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.FromString(s)
		if err != nil {
			log.Printf("skipping malformed assignee id %q", s)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields."})
		return
	}

	projectID, err := uuid.FromString(req.ProjectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid projectId"})
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate"})
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dueDate"})
		return
	}

	task, err := h.taskService.CreateTask(h.db, userID, services.CreateTaskInput{
		ProjectID:   projectID,
		Name:        req.TaskName,
		Description: req.TaskDescription,
		StartDate:   startDate,
		DueDate:     dueDate,
		Status:      req.Status,
		Priority:    req.Priority,
		Assignees:   parseAssigneeIDs(req.Assignees),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.scheduleReminder(task.ID, task.DueDate)

	c.JSON(http.StatusCreated, gin.H{"message": "Task created", "taskId": task.ID})
}

// scheduleReminder queues a due-date reminder a day ahead of the deadline.
// Deadlines closer than that get no reminder.
func (h *TaskHandler) scheduleReminder(taskID uuid.UUID, dueDate *time.Time) {
	if h.queue == nil || dueDate == nil {
		return
	}

	remindAt := dueDate.Add(-24 * time.Hour)
	if remindAt.Before(time.Now()) {
		return
	}

	err := h.queue.EnqueueAt(worker.QueueReminders, worker.JobTypeTaskReminder, map[string]interface{}{
		"task_id": taskID.String(),
	}, remindAt)
	if err != nil {
		log.Printf("failed to enqueue task reminder: %v", err)
	}
}

func (h *TaskHandler) GetAllTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectIDStr := c.Query("projectId")
	if projectIDStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: projectId"})
		return
	}

	projectID, err := uuid.FromString(projectIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid projectId"})
		return
	}

	tasks, err := h.taskService.GetTasksByProject(h.db, projectID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetUserTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.GetTasksForUser(h.db, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	taskID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(h.db, taskID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	taskID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields."})
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate"})
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dueDate"})
		return
	}

	input := services.UpdateTaskInput{
		Name:        req.TaskName,
		Description: req.TaskDescription,
		StartDate:   startDate,
		DueDate:     dueDate,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if req.Assignees != nil {
		ids := parseAssigneeIDs(*req.Assignees)
		input.Assignees = &ids
	}

	if err := h.taskService.UpdateTask(h.db, taskID, userID, input); err != nil {
		respondServiceError(c, err)
		return
	}

	h.scheduleReminder(taskID, dueDate)

	c.JSON(http.StatusOK, gin.H{"message": "Task updated"})
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	taskID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	filePaths, err := h.taskService.DeleteTask(h.db, taskID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	cleanupStoredFiles(h.queue, h.uploadDir, filePaths)

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

func (h *TaskHandler) GetTaskAssignees(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	taskID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	assignees, err := h.taskService.ListAssignees(h.db, taskID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignees)
}

type AssignUserRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *TaskHandler) AssignUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	taskID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: userId."})
		return
	}

	candidateID, err := uuid.FromString(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
		return
	}

	if err := h.taskService.AssignUser(h.db, taskID, candidateID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	if h.queue != nil {
		err := h.queue.Enqueue(worker.QueueNotifications, worker.JobTypeTaskAssigned, map[string]interface{}{
			"task_id": taskID.String(),
			"user_id": candidateID.String(),
		})
		if err != nil {
			log.Printf("failed to enqueue task-assigned notification: %v", err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User assigned to task"})
}

func (h *TaskHandler) UnassignUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	taskID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	targetID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return
	}

	if err := h.taskService.UnassignUser(h.db, taskID, targetID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unassigned from task"})
}
