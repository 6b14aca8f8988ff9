package services

import (
	"projecthub/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type AttachmentUpload struct {
	FileName   string
	StoredName string
	FileType   string
	FileSize   int64
}

type AttachmentService interface {
	SaveAttachment(db *gorm.DB, taskID, userID uuid.UUID, upload AttachmentUpload) (*models.Attachment, error)
	ListAttachments(db *gorm.DB, userID uuid.UUID, taskID *uuid.UUID) ([]models.Attachment, error)
	GetAttachment(db *gorm.DB, attachmentID, userID uuid.UUID) (*models.Attachment, error)
	DeleteAttachment(db *gorm.DB, attachmentID, userID uuid.UUID) (string, error)
}

type AttachmentServiceImpl struct {
	access AccessService
}

func NewAttachmentService(access AccessService) *AttachmentServiceImpl {
	return &AttachmentServiceImpl{access: access}
}

// SaveAttachment records metadata for a file already written to the
// uploads directory. The caller is responsible for removing the file when
// this returns an error.
func (s *AttachmentServiceImpl) SaveAttachment(db *gorm.DB, taskID, userID uuid.UUID, upload AttachmentUpload) (*models.Attachment, error) {
	if _, err := s.access.GetTaskForUser(db, taskID, userID); err != nil {
		return nil, err
	}

	attachment := models.Attachment{
		ID:       uuid.Must(uuid.NewV4()),
		TaskID:   taskID,
		FileName: upload.FileName,
		FilePath: upload.StoredName,
		FileType: upload.FileType,
		FileSize: upload.FileSize,
	}

	if err := db.Create(&attachment).Error; err != nil {
		return nil, err
	}

	return &attachment, nil
}

// ListAttachments returns the attachments on a single task when taskID is
// given (access required), otherwise every attachment on tasks the user
// can see.
func (s *AttachmentServiceImpl) ListAttachments(db *gorm.DB, userID uuid.UUID, taskID *uuid.UUID) ([]models.Attachment, error) {
	var attachments []models.Attachment

	if taskID != nil {
		if _, err := s.access.GetTaskForUser(db, *taskID, userID); err != nil {
			return nil, err
		}
		if err := db.Where("task_id = ?", *taskID).Find(&attachments).Error; err != nil {
			return nil, err
		}
		return attachments, nil
	}

	err := db.Model(&models.Attachment{}).
		Distinct("attachments.*").
		Joins("JOIN tasks ON tasks.id = attachments.task_id").
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Joins("LEFT JOIN project_members ON project_members.project_id = projects.id").
		Where("projects.owner_id = ? OR project_members.user_id = ?", userID, userID).
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

func (s *AttachmentServiceImpl) GetAttachment(db *gorm.DB, attachmentID, userID uuid.UUID) (*models.Attachment, error) {
	return s.access.GetAttachmentForUser(db, attachmentID, userID)
}

// DeleteAttachment removes the database row and returns the stored file
// name. The filesystem removal is the caller's, and must never block the
// row delete: a missing file is logged and tolerated.
func (s *AttachmentServiceImpl) DeleteAttachment(db *gorm.DB, attachmentID, userID uuid.UUID) (string, error) {
	attachment, err := s.access.GetAttachmentForUser(db, attachmentID, userID)
	if err != nil {
		return "", err
	}

	if err := db.Delete(&models.Attachment{}, "id = ?", attachmentID).Error; err != nil {
		return "", err
	}

	return attachment.FilePath, nil
}
