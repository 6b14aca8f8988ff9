package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type Task struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	ProjectID   uuid.UUID  `json:"project_id" gorm:"type:uuid;not null;index"`
	Name        string     `json:"name" gorm:"not null"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `json:"status" gorm:"not null;default:'pending'"`
	Priority    int        `json:"priority"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskAssignee links a task to a responsible user. Assignees must be the
// project's owner or a ProjectMember; that rule is enforced at assignment
// time, not by the schema.
type TaskAssignee struct {
	TaskID    uuid.UUID `json:"task_id" gorm:"primaryKey;type:uuid;uniqueIndex:idx_task_user"`
	UserID    uuid.UUID `json:"user_id" gorm:"primaryKey;type:uuid;uniqueIndex:idx_task_user"`
	CreatedAt time.Time `json:"created_at"`
}
