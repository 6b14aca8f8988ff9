package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"projecthub/backend/internal/services"
	"projecthub/backend/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

// currentUserID reads the authenticated identity the auth middleware
// stored in the context. Writes the 401 itself when missing.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return uuid.Nil, false
	}

	userIDStr, ok := userIDInterface.(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return uuid.Nil, false
	}

	userID, err := uuid.FromString(userIDStr)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return uuid.Nil, false
	}

	return userID, true
}

// parseUUIDParam parses a path parameter as a UUID, responding 400 on
// malformed input.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.FromString(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps service sentinels onto HTTP statuses. Unknown
// errors become a generic 500; the detail stays in the server log.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, services.ErrNotProjectMember):
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is not a member of the project"})
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrAlreadyInvited),
		errors.Is(err, services.ErrInvitationResolved),
		errors.Is(err, services.ErrAlreadyAssigned):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// parseDate accepts RFC3339 timestamps or plain dates; clients send both.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// cleanupStoredFiles disposes of attachment files after their rows are
// gone: through the cleanup queue when one is wired, inline otherwise.
// Failures are logged and never surfaced; the database delete has already
// happened.
func cleanupStoredFiles(queue *worker.JobQueue, uploadDir string, storedNames []string) {
	for _, name := range storedNames {
		if name == "" {
			continue
		}
		path := filepath.Join(uploadDir, name)

		if queue != nil {
			err := queue.Enqueue(worker.QueueCleanup, worker.JobTypeFileCleanup, map[string]interface{}{
				"path": path,
			})
			if err == nil {
				continue
			}
			log.Printf("cleanup enqueue failed for %s: %v", path, err)
		}

		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("failed to remove file %s: %v", path, err)
		}
	}
}
