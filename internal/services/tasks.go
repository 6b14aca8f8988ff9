package services

import (
	"log"
	"strings"
	"time"

	"projecthub/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type CreateTaskInput struct {
	ProjectID   uuid.UUID
	Name        string
	Description string
	StartDate   *time.Time
	DueDate     *time.Time
	Status      string
	Priority    int
	Assignees   []uuid.UUID
}

type UpdateTaskInput struct {
	Name        string
	Description string
	StartDate   *time.Time
	DueDate     *time.Time
	Status      string
	Priority    int
	// Assignees nil means "leave assignments alone"; non-nil replaces the
	// whole assignment set.
	Assignees *[]uuid.UUID
}

// TaskWithAssignees pairs a task with the ids of its assignees.
type TaskWithAssignees struct {
	models.Task
	Assignees []uuid.UUID `json:"assignees"`
}

// UserTask is a row for the "my tasks" view: the task, its project's
// name, and full assignee identities.
type UserTask struct {
	models.Task
	ProjectName string       `json:"project_name"`
	Assignees   []MemberInfo `json:"assignees"`
}

type TaskService interface {
	CreateTask(db *gorm.DB, userID uuid.UUID, input CreateTaskInput) (*models.Task, error)
	GetTasksByProject(db *gorm.DB, projectID, userID uuid.UUID) ([]TaskWithAssignees, error)
	GetTask(db *gorm.DB, taskID, userID uuid.UUID) (*TaskWithAssignees, error)
	UpdateTask(db *gorm.DB, taskID, userID uuid.UUID, input UpdateTaskInput) error
	DeleteTask(db *gorm.DB, taskID, userID uuid.UUID) ([]string, error)
	GetTasksForUser(db *gorm.DB, userID uuid.UUID) ([]UserTask, error)

	ListAssignees(db *gorm.DB, taskID, userID uuid.UUID) ([]MemberInfo, error)
	AssignUser(db *gorm.DB, taskID, candidateID, byUserID uuid.UUID) error
	UnassignUser(db *gorm.DB, taskID, targetID, byUserID uuid.UUID) error
}

type TaskServiceImpl struct {
	access AccessService
}

func NewTaskService(access AccessService) *TaskServiceImpl {
	return &TaskServiceImpl{access: access}
}

// CreateTask inserts the task and any valid assignments in one
// transaction. Assignee candidates who are not owner-or-member of the
// project are skipped and logged, not surfaced as per-item errors.
func (s *TaskServiceImpl) CreateTask(db *gorm.DB, userID uuid.UUID, input CreateTaskInput) (*models.Task, error) {
	ok, err := s.access.HasProjectAccess(db, input.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = "pending"
	}

	task := models.Task{
		ID:          uuid.Must(uuid.NewV4()),
		ProjectID:   input.ProjectID,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		StartDate:   input.StartDate,
		DueDate:     input.DueDate,
		Status:      status,
		Priority:    input.Priority,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		return s.assignValidCandidates(tx, &task, input.Assignees)
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

func (s *TaskServiceImpl) assignValidCandidates(tx *gorm.DB, task *models.Task, candidates []uuid.UUID) error {
	for _, candidateID := range candidates {
		ok, err := s.access.IsOwnerOrMember(tx, task.ProjectID, candidateID)
		if err != nil {
			return err
		}
		if !ok {
			log.Printf("task %s: skipping assignee %s, not a member of project %s",
				task.ID, candidateID, task.ProjectID)
			continue
		}
		assignee := models.TaskAssignee{TaskID: task.ID, UserID: candidateID}
		if err := tx.Where("task_id = ? AND user_id = ?", task.ID, candidateID).
			FirstOrCreate(&assignee).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *TaskServiceImpl) GetTasksByProject(db *gorm.DB, projectID, userID uuid.UUID) ([]TaskWithAssignees, error) {
	ok, err := s.access.HasProjectAccess(db, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	var tasks []models.Task
	if err := db.Where("project_id = ?", projectID).Find(&tasks).Error; err != nil {
		return nil, err
	}

	return s.attachAssignees(db, tasks)
}

func (s *TaskServiceImpl) attachAssignees(db *gorm.DB, tasks []models.Task) ([]TaskWithAssignees, error) {
	result := make([]TaskWithAssignees, 0, len(tasks))
	if len(tasks) == 0 {
		return result, nil
	}

	taskIDs := make([]uuid.UUID, len(tasks))
	for i, t := range tasks {
		taskIDs[i] = t.ID
	}

	var assignments []models.TaskAssignee
	if err := db.Where("task_id IN ?", taskIDs).Find(&assignments).Error; err != nil {
		return nil, err
	}

	byTask := make(map[uuid.UUID][]uuid.UUID)
	for _, a := range assignments {
		byTask[a.TaskID] = append(byTask[a.TaskID], a.UserID)
	}

	for _, t := range tasks {
		assignees := byTask[t.ID]
		if assignees == nil {
			assignees = []uuid.UUID{}
		}
		result = append(result, TaskWithAssignees{Task: t, Assignees: assignees})
	}
	return result, nil
}

func (s *TaskServiceImpl) GetTask(db *gorm.DB, taskID, userID uuid.UUID) (*TaskWithAssignees, error) {
	task, err := s.access.GetTaskForUser(db, taskID, userID)
	if err != nil {
		return nil, err
	}

	withAssignees, err := s.attachAssignees(db, []models.Task{*task})
	if err != nil {
		return nil, err
	}
	return &withAssignees[0], nil
}

// UpdateTask writes the task fields and, when input.Assignees is set,
// replaces the assignment set in the same transaction; invalid candidates
// are skipped and logged as on create.
func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, taskID, userID uuid.UUID, input UpdateTaskInput) error {
	task, err := s.access.GetTaskForUser(db, taskID, userID)
	if err != nil {
		return err
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = "pending"
	}

	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Task{}).
			Where("id = ?", taskID).
			Updates(map[string]interface{}{
				"name":        strings.TrimSpace(input.Name),
				"description": strings.TrimSpace(input.Description),
				"start_date":  input.StartDate,
				"due_date":    input.DueDate,
				"status":      status,
				"priority":    input.Priority,
			}).Error
		if err != nil {
			return err
		}

		if input.Assignees == nil {
			return nil
		}

		if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskAssignee{}).Error; err != nil {
			return err
		}
		return s.assignValidCandidates(tx, task, *input.Assignees)
	})
}

// DeleteTask removes the task with its assignments and attachment rows in
// one transaction and returns the stored file names for cleanup.
func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, taskID, userID uuid.UUID) ([]string, error) {
	if _, err := s.access.GetTaskForUser(db, taskID, userID); err != nil {
		return nil, err
	}

	var filePaths []string
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Attachment{}).Where("task_id = ?", taskID).Pluck("file_path", &filePaths).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", taskID).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskAssignee{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, "id = ?", taskID).Error
	})
	if err != nil {
		return nil, err
	}

	return filePaths, nil
}

// GetTasksForUser lists the tasks assigned to the user across all
// projects, soonest due date first, then priority.
func (s *TaskServiceImpl) GetTasksForUser(db *gorm.DB, userID uuid.UUID) ([]UserTask, error) {
	type taskRow struct {
		models.Task
		ProjectName string
	}

	var rows []taskRow
	err := db.Model(&models.Task{}).
		Select("tasks.*", "projects.name AS project_name").
		Joins("JOIN task_assignees ON task_assignees.task_id = tasks.id").
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("task_assignees.user_id = ?", userID).
		Order("(tasks.due_date IS NULL), tasks.due_date ASC, tasks.priority DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]UserTask, 0, len(rows))
	for _, row := range rows {
		assignees, err := s.assigneeInfos(db, row.Task.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, UserTask{
			Task:        row.Task,
			ProjectName: row.ProjectName,
			Assignees:   assignees,
		})
	}
	return result, nil
}

func (s *TaskServiceImpl) assigneeInfos(db *gorm.DB, taskID uuid.UUID) ([]MemberInfo, error) {
	var assignees []MemberInfo
	err := db.Model(&models.TaskAssignee{}).
		Select("task_assignees.user_id", "users.username", "users.email").
		Joins("JOIN users ON users.id = task_assignees.user_id").
		Where("task_assignees.task_id = ?", taskID).
		Scan(&assignees).Error
	if err != nil {
		return nil, err
	}
	if assignees == nil {
		assignees = []MemberInfo{}
	}
	return assignees, nil
}

func (s *TaskServiceImpl) ListAssignees(db *gorm.DB, taskID, userID uuid.UUID) ([]MemberInfo, error) {
	if _, err := s.access.GetTaskForUser(db, taskID, userID); err != nil {
		return nil, err
	}
	return s.assigneeInfos(db, taskID)
}

// AssignUser adds one assignment. The caller needs project access
// (membership suffices); the candidate must be owner-or-member; an
// existing assignment is a conflict, never a silent no-op.
func (s *TaskServiceImpl) AssignUser(db *gorm.DB, taskID, candidateID, byUserID uuid.UUID) error {
	task, err := s.access.GetTaskForUser(db, taskID, byUserID)
	if err != nil {
		return err
	}

	ok, err := s.access.IsOwnerOrMember(db, task.ProjectID, candidateID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotProjectMember
	}

	var count int64
	if err := db.Model(&models.TaskAssignee{}).
		Where("task_id = ? AND user_id = ?", taskID, candidateID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyAssigned
	}

	assignee := models.TaskAssignee{TaskID: taskID, UserID: candidateID}
	return db.Create(&assignee).Error
}

// UnassignUser removes an assignment; deleting an absent row is a no-op.
func (s *TaskServiceImpl) UnassignUser(db *gorm.DB, taskID, targetID, byUserID uuid.UUID) error {
	if _, err := s.access.GetTaskForUser(db, taskID, byUserID); err != nil {
		return err
	}

	return db.Where("task_id = ? AND user_id = ?", taskID, targetID).
		Delete(&models.TaskAssignee{}).Error
}
