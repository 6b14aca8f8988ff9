package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type Project struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	OwnerID     uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	Category    string    `json:"category" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectMember is a membership grant distinct from ownership. The owner
// of a project is never required to have a row here; access checks treat
// owner and member as separate OR-combined conditions.
type ProjectMember struct {
	ProjectID uuid.UUID `json:"project_id" gorm:"primaryKey;type:uuid;uniqueIndex:idx_project_user"`
	UserID    uuid.UUID `json:"user_id" gorm:"primaryKey;type:uuid;uniqueIndex:idx_project_user"`
	CreatedAt time.Time `json:"created_at"`
}
