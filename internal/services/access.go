package services

import (
	"errors"

	"projecthub/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// AccessService holds the one rule every project-scoped operation runs
// through: a user may act within a project iff they own it or hold a
// ProjectMember row. Ownership-only actions use the stricter
// IsProjectOwner check. Every request re-evaluates these predicates;
// decisions are never cached.
type AccessService interface {
	HasProjectAccess(db *gorm.DB, projectID, userID uuid.UUID) (bool, error)
	IsProjectOwner(db *gorm.DB, projectID, userID uuid.UUID) (bool, error)
	IsOwnerOrMember(db *gorm.DB, projectID, userID uuid.UUID) (bool, error)
	GetTaskForUser(db *gorm.DB, taskID, userID uuid.UUID) (*models.Task, error)
	GetAttachmentForUser(db *gorm.DB, attachmentID, userID uuid.UUID) (*models.Attachment, error)
}

type AccessServiceImpl struct{}

func NewAccessService() *AccessServiceImpl {
	return &AccessServiceImpl{}
}

// HasProjectAccess reports whether userID is the project's owner or a
// member. Returns ErrNotFound when the project does not exist so callers
// can distinguish 404 from 403.
func (s *AccessServiceImpl) HasProjectAccess(db *gorm.DB, projectID, userID uuid.UUID) (bool, error) {
	var project models.Project
	if err := db.Select("id", "owner_id").First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	if project.OwnerID == userID {
		return true, nil
	}

	var count int64
	err := db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// IsProjectOwner is the strict predicate for ownership-only actions
// (project update/delete, invitations, member add/remove). Membership is
// never sufficient here.
func (s *AccessServiceImpl) IsProjectOwner(db *gorm.DB, projectID, userID uuid.UUID) (bool, error) {
	var project models.Project
	if err := db.Select("id", "owner_id").First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	return project.OwnerID == userID, nil
}

// IsOwnerOrMember validates assignee candidates. Same rule as
// HasProjectAccess; kept as its own method because callers apply it to a
// third party rather than the requesting identity.
func (s *AccessServiceImpl) IsOwnerOrMember(db *gorm.DB, projectID, userID uuid.UUID) (bool, error) {
	return s.HasProjectAccess(db, projectID, userID)
}

// GetTaskForUser resolves the task's project and applies the access
// predicate, returning the task record so callers avoid a second lookup.
// ErrNotFound means the task does not exist; ErrForbidden means it exists
// but the user has no access to its project.
func (s *AccessServiceImpl) GetTaskForUser(db *gorm.DB, taskID, userID uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := db.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	ok, err := s.HasProjectAccess(db, task.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	return &task, nil
}

// GetAttachmentForUser resolves attachment -> task -> project and applies
// the project predicate. There is no attachment-level permission; the
// task's access list is the attachment's access list.
func (s *AccessServiceImpl) GetAttachmentForUser(db *gorm.DB, attachmentID, userID uuid.UUID) (*models.Attachment, error) {
	var attachment models.Attachment
	if err := db.First(&attachment, "id = ?", attachmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if _, err := s.GetTaskForUser(db, attachment.TaskID, userID); err != nil {
		return nil, err
	}

	return &attachment, nil
}
