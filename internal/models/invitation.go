package models

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

func (s InvitationStatus) IsValid() bool {
	switch s {
	case InvitationPending, InvitationAccepted, InvitationDeclined:
		return true
	default:
		return false
	}
}

// ProjectInvitation is the consent handshake for joining a project.
// Created by the owner in "pending"; only the invited user may accept
// (which inserts the ProjectMember row) or decline (which deletes the
// invitation).
type ProjectInvitation struct {
	ID        uuid.UUID        `json:"id" gorm:"primaryKey;type:uuid"`
	ProjectID uuid.UUID        `json:"project_id" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID        `json:"user_id" gorm:"type:uuid;not null;index"`
	InvitedBy uuid.UUID        `json:"invited_by" gorm:"type:uuid;not null"`
	Status    InvitationStatus `json:"status" gorm:"not null;default:'pending'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate defaults an unset status to pending and rejects values
// outside the status enum before they reach the database.
func (i *ProjectInvitation) BeforeCreate(tx *gorm.DB) error {
	if i.Status == "" {
		i.Status = InvitationPending
	}
	if !i.Status.IsValid() {
		return fmt.Errorf("invalid invitation status %q", i.Status)
	}
	return nil
}
