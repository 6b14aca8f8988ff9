package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// Attachment metadata for a file stored on local disk. FilePath is the
// generated name under the uploads directory, FileName the original
// client-supplied name. Access is derived through the task's project.
type Attachment struct {
	ID       uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	TaskID   uuid.UUID `json:"task_id" gorm:"type:uuid;not null;index"`
	FileName string    `json:"file_name" gorm:"not null"`
	FilePath string    `json:"file_path" gorm:"not null"`
	FileType string    `json:"file_type"`
	FileSize int64     `json:"file_size"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
