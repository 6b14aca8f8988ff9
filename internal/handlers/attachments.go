package handlers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"projecthub/backend/internal/services"
	"projecthub/backend/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type AttachmentHandler struct {
	db                *gorm.DB
	attachmentService services.AttachmentService
	queue             *worker.JobQueue
	uploadDir         string
	maxUploadSize     int64
}

func NewAttachmentHandler(db *gorm.DB, attachmentService services.AttachmentService, queue *worker.JobQueue, uploadDir string, maxUploadSize int64) *AttachmentHandler {
	return &AttachmentHandler{
		db:                db,
		attachmentService: attachmentService,
		queue:             queue,
		uploadDir:         uploadDir,
		maxUploadSize:     maxUploadSize,
	}
}

// UploadAttachment stores the multipart file under a generated name
// first, then records the metadata row; the stored file is removed again
// when validation, authorization, or the insert fails.
func (h *AttachmentHandler) UploadAttachment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	taskIDStr := c.PostForm("taskId")
	if taskIDStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: taskId"})
		return
	}

	taskID, err := uuid.FromString(taskIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid taskId"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	if fileHeader.Size > h.maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	storedName := uuid.Must(uuid.NewV4()).String() + filepath.Ext(fileHeader.Filename)
	storedPath := filepath.Join(h.uploadDir, storedName)

	if err := c.SaveUploadedFile(fileHeader, storedPath); err != nil {
		log.Printf("failed to store upload %s: %v", fileHeader.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	attachment, err := h.attachmentService.SaveAttachment(h.db, taskID, userID, services.AttachmentUpload{
		FileName:   fileHeader.Filename,
		StoredName: storedName,
		FileType:   fileHeader.Header.Get("Content-Type"),
		FileSize:   fileHeader.Size,
	})
	if err != nil {
		if removeErr := os.Remove(storedPath); removeErr != nil {
			log.Printf("failed to clean up %s after rejected upload: %v", storedPath, removeErr)
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Attachment uploaded successfully",
		"attachment": attachment,
	})
}

func (h *AttachmentHandler) GetAllAttachments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var taskID *uuid.UUID
	if taskIDStr := c.Query("taskId"); taskIDStr != "" {
		id, err := uuid.FromString(taskIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid taskId"})
			return
		}
		taskID = &id
	}

	attachments, err := h.attachmentService.ListAttachments(h.db, userID, taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, attachments)
}

func (h *AttachmentHandler) DownloadAttachment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	attachmentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	attachment, err := h.attachmentService.GetAttachment(h.db, attachmentID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	filePath := filepath.Join(h.uploadDir, attachment.FilePath)
	if _, err := os.Stat(filePath); err != nil {
		log.Printf("attachment %s: stored file %s missing: %v", attachmentID, filePath, err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Attachment file not found on server"})
		return
	}

	c.FileAttachment(filePath, attachment.FileName)
}

// DeleteAttachment deletes the row first; the filesystem cleanup is
// best-effort and a missing file never fails the request.
func (h *AttachmentHandler) DeleteAttachment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	attachmentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	storedName, err := h.attachmentService.DeleteAttachment(h.db, attachmentID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	cleanupStoredFiles(h.queue, h.uploadDir, []string{storedName})

	c.JSON(http.StatusOK, gin.H{"message": "Attachment deleted successfully"})
}
