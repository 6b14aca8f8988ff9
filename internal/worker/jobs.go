package worker

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gorm.io/gorm"
)

// NotificationHandler handles invitation and assignment notifications.
// Delivery is log-only for now; the job payload carries everything a
// mail or push integration would need.
func NotificationHandler(db *gorm.DB) JobHandler {
	return func(ctx context.Context, job *Job) error {
		switch job.Type {
		case JobTypeInvitationNotification:
			log.Printf("notify: invitation %v to user %v for project %v",
				job.Payload["invitation_id"], job.Payload["user_id"], job.Payload["project_id"])
		case JobTypeTaskAssigned:
			log.Printf("notify: user %v assigned to task %v",
				job.Payload["user_id"], job.Payload["task_id"])
		default:
			return fmt.Errorf("unexpected notification job type: %s", job.Type)
		}
		return nil
	}
}

// ReminderHandler logs due-date reminders for tasks that still exist
// and are not done. A task deleted between enqueue and processing is
// not an error.
func ReminderHandler(db *gorm.DB) JobHandler {
	return func(ctx context.Context, job *Job) error {
		taskID, _ := job.Payload["task_id"].(string)
		if taskID == "" {
			return fmt.Errorf("reminder job missing task_id")
		}

		var count int64
		err := db.WithContext(ctx).Table("tasks").
			Where("id = ? AND status <> ?", taskID, "completed").
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to look up task %s: %w", taskID, err)
		}

		if count > 0 {
			log.Printf("reminder: task %s is approaching its due date", taskID)
		}
		return nil
	}
}

// FileCleanupHandler removes stored attachment files. A file that is
// already gone counts as cleaned up.
func FileCleanupHandler(uploadDir string) JobHandler {
	return func(ctx context.Context, job *Job) error {
		path, _ := job.Payload["path"].(string)
		if path == "" {
			return fmt.Errorf("cleanup job missing path")
		}

		// Stored names are generated server-side, but never follow a
		// path that escapes the upload directory.
		if filepath.Dir(path) != filepath.Clean(uploadDir) {
			return fmt.Errorf("cleanup path %s outside upload dir", path)
		}

		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		return nil
	}
}
