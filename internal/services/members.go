package services

import (
	"errors"

	"projecthub/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// MemberInfo is a member row joined with the user's public identity.
type MemberInfo struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// InvitationInfo is a pending invitation joined with project and inviter
// details for the invitee's inbox.
type InvitationInfo struct {
	ID          uuid.UUID               `json:"id"`
	ProjectID   uuid.UUID               `json:"project_id"`
	ProjectName string                  `json:"project_name"`
	InvitedBy   uuid.UUID               `json:"invited_by"`
	InviterName string                  `json:"inviter_name"`
	Status      models.InvitationStatus `json:"status"`
}

type MemberService interface {
	AddMember(db *gorm.DB, projectID, userID, byUserID uuid.UUID) error
	RemoveMember(db *gorm.DB, projectID, userID, byUserID uuid.UUID) error
	ListMembers(db *gorm.DB, projectID, byUserID uuid.UUID) ([]MemberInfo, error)

	SendInvitation(db *gorm.DB, projectID, invitedUserID, byUserID uuid.UUID) (*models.ProjectInvitation, error)
	ListInvitationsForUser(db *gorm.DB, userID uuid.UUID) ([]InvitationInfo, error)
	AcceptInvitation(db *gorm.DB, invitationID, actingUserID uuid.UUID) (*models.ProjectInvitation, error)
	DeclineInvitation(db *gorm.DB, invitationID, actingUserID uuid.UUID) error
}

type MemberServiceImpl struct {
	access AccessService
}

func NewMemberService(access AccessService) *MemberServiceImpl {
	return &MemberServiceImpl{access: access}
}

// AddMember is the owner's direct-add path; it bypasses the invitation
// handshake. The composite unique index keeps it from double-inserting
// alongside invitation acceptance.
func (s *MemberServiceImpl) AddMember(db *gorm.DB, projectID, userID, byUserID uuid.UUID) error {
	owner, err := s.access.IsProjectOwner(db, projectID, byUserID)
	if err != nil {
		return err
	}
	if !owner {
		return ErrForbidden
	}

	var user models.User
	if err := db.Select("id").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var count int64
	if err := db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyMember
	}

	member := models.ProjectMember{ProjectID: projectID, UserID: userID}
	return db.Create(&member).Error
}

// RemoveMember is owner-only and idempotent; removing an absent member is
// not an error.
func (s *MemberServiceImpl) RemoveMember(db *gorm.DB, projectID, userID, byUserID uuid.UUID) error {
	owner, err := s.access.IsProjectOwner(db, projectID, byUserID)
	if err != nil {
		return err
	}
	if !owner {
		return ErrForbidden
	}

	return db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{}).Error
}

func (s *MemberServiceImpl) ListMembers(db *gorm.DB, projectID, byUserID uuid.UUID) ([]MemberInfo, error) {
	ok, err := s.access.HasProjectAccess(db, projectID, byUserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	var members []MemberInfo
	err = db.Model(&models.ProjectMember{}).
		Select("project_members.user_id", "users.username", "users.email").
		Joins("JOIN users ON users.id = project_members.user_id").
		Where("project_members.project_id = ?", projectID).
		Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// SendInvitation creates a pending invitation. Owner-only; the invited
// user must exist; a second pending invitation for the same pair is
// rejected rather than duplicated.
func (s *MemberServiceImpl) SendInvitation(db *gorm.DB, projectID, invitedUserID, byUserID uuid.UUID) (*models.ProjectInvitation, error) {
	owner, err := s.access.IsProjectOwner(db, projectID, byUserID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, ErrForbidden
	}

	var user models.User
	if err := db.Select("id").First(&user, "id = ?", invitedUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var count int64
	if err := db.Model(&models.ProjectInvitation{}).
		Where("project_id = ? AND user_id = ? AND status = ?", projectID, invitedUserID, models.InvitationPending).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyInvited
	}

	invitation := models.ProjectInvitation{
		ID:        uuid.Must(uuid.NewV4()),
		ProjectID: projectID,
		UserID:    invitedUserID,
		InvitedBy: byUserID,
		Status:    models.InvitationPending,
	}

	if err := db.Create(&invitation).Error; err != nil {
		return nil, err
	}

	return &invitation, nil
}

func (s *MemberServiceImpl) ListInvitationsForUser(db *gorm.DB, userID uuid.UUID) ([]InvitationInfo, error) {
	var invitations []InvitationInfo
	err := db.Model(&models.ProjectInvitation{}).
		Select("project_invitations.id", "project_invitations.project_id",
			"projects.name AS project_name", "project_invitations.invited_by",
			"users.username AS inviter_name", "project_invitations.status").
		Joins("JOIN projects ON projects.id = project_invitations.project_id").
		Joins("JOIN users ON users.id = project_invitations.invited_by").
		Where("project_invitations.user_id = ? AND project_invitations.status = ?", userID, models.InvitationPending).
		Scan(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

// AcceptInvitation flips pending -> accepted and inserts the membership
// row in one transaction. Only the invited user may accept; a resolved
// invitation cannot be accepted again.
func (s *MemberServiceImpl) AcceptInvitation(db *gorm.DB, invitationID, actingUserID uuid.UUID) (*models.ProjectInvitation, error) {
	var invitation models.ProjectInvitation
	if err := db.First(&invitation, "id = ?", invitationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if invitation.UserID != actingUserID {
		return nil, ErrForbidden
	}

	if invitation.Status != models.InvitationPending {
		return nil, ErrInvitationResolved
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ProjectInvitation{}).
			Where("id = ?", invitationID).
			Update("status", models.InvitationAccepted).Error; err != nil {
			return err
		}

		// FirstOrCreate: the invitee may already be a member through the
		// direct-add path.
		member := models.ProjectMember{ProjectID: invitation.ProjectID, UserID: actingUserID}
		return tx.Where("project_id = ? AND user_id = ?", invitation.ProjectID, actingUserID).
			FirstOrCreate(&member).Error
	})
	if err != nil {
		return nil, err
	}

	invitation.Status = models.InvitationAccepted
	return &invitation, nil
}

// DeclineInvitation deletes the invitation row; no declined record
// persists. Only the invited user may decline, and only while pending.
func (s *MemberServiceImpl) DeclineInvitation(db *gorm.DB, invitationID, actingUserID uuid.UUID) error {
	var invitation models.ProjectInvitation
	if err := db.First(&invitation, "id = ?", invitationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if invitation.UserID != actingUserID {
		return ErrForbidden
	}

	if invitation.Status != models.InvitationPending {
		return ErrInvitationResolved
	}

	return db.Delete(&models.ProjectInvitation{}, "id = ?", invitationID).Error
}
