package services

import (
	"errors"
	"strings"

	"projecthub/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type ProjectService interface {
	CreateProject(db *gorm.DB, ownerID uuid.UUID, name, description, category string) (*models.Project, error)
	GetProjectsForUser(db *gorm.DB, userID uuid.UUID) ([]models.Project, error)
	GetProject(db *gorm.DB, projectID, userID uuid.UUID) (*models.Project, error)
	UpdateProject(db *gorm.DB, projectID, userID uuid.UUID, name, description, category string) error
	DeleteProject(db *gorm.DB, projectID, userID uuid.UUID) ([]string, error)
}

type ProjectServiceImpl struct {
	access AccessService
}

func NewProjectService(access AccessService) *ProjectServiceImpl {
	return &ProjectServiceImpl{access: access}
}

func (s *ProjectServiceImpl) CreateProject(db *gorm.DB, ownerID uuid.UUID, name, description, category string) (*models.Project, error) {
	project := models.Project{
		ID:          uuid.Must(uuid.NewV4()),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		OwnerID:     ownerID,
		Category:    strings.TrimSpace(category),
	}

	if err := db.Create(&project).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// GetProjectsForUser lists every project the user owns or is a member of.
func (s *ProjectServiceImpl) GetProjectsForUser(db *gorm.DB, userID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	err := db.Model(&models.Project{}).
		Distinct("projects.*").
		Joins("LEFT JOIN project_members ON project_members.project_id = projects.id").
		Where("projects.owner_id = ? OR project_members.user_id = ?", userID, userID).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject returns ErrNotFound both when the project is absent and when
// the caller has no access, matching the visibility the list endpoint
// gives: a project you cannot see does not exist for you.
func (s *ProjectServiceImpl) GetProject(db *gorm.DB, projectID, userID uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := db.First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	ok, err := s.access.HasProjectAccess(db, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	return &project, nil
}

func (s *ProjectServiceImpl) UpdateProject(db *gorm.DB, projectID, userID uuid.UUID, name, description, category string) error {
	owner, err := s.access.IsProjectOwner(db, projectID, userID)
	if err != nil {
		return err
	}
	if !owner {
		return ErrForbidden
	}

	return db.Model(&models.Project{}).
		Where("id = ?", projectID).
		Updates(map[string]interface{}{
			"name":        strings.TrimSpace(name),
			"description": strings.TrimSpace(description),
			"category":    strings.TrimSpace(category),
		}).Error
}

// DeleteProject removes the project and everything under it (tasks,
// assignments, attachments, members, invitations) in one transaction.
// Returns the stored file names of deleted attachments so the caller can
// clean up the filesystem.
func (s *ProjectServiceImpl) DeleteProject(db *gorm.DB, projectID, userID uuid.UUID) ([]string, error) {
	owner, err := s.access.IsProjectOwner(db, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, ErrForbidden
	}

	var filePaths []string
	err = db.Transaction(func(tx *gorm.DB) error {
		var taskIDs []uuid.UUID
		if err := tx.Model(&models.Task{}).Where("project_id = ?", projectID).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			if err := tx.Model(&models.Attachment{}).Where("task_id IN ?", taskIDs).Pluck("file_path", &filePaths).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Attachment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskAssignee{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", projectID).Delete(&models.Task{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectInvitation{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, "id = ?", projectID).Error
	})
	if err != nil {
		return nil, err
	}

	return filePaths, nil
}
