package services_test

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// createSchema builds the tables by hand; the model tags carry postgres
// defaults that sqlite cannot evaluate, and ids are generated app-side
// anyway.
func createSchema(t require.TestingT, db *gorm.DB) {
	statements := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			owner_id TEXT NOT NULL,
			category TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE project_members (
			project_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (project_id, user_id)
		)`,
		`CREATE TABLE project_invitations (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			invited_by TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE tasks (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			start_date DATETIME,
			due_date DATETIME,
			status TEXT NOT NULL DEFAULT 'pending',
			priority INTEGER DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE task_assignees (
			task_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (task_id, user_id)
		)`,
		`CREATE TABLE attachments (
			id TEXT PRIMARY KEY,
			task_id TEXT NOT NULL,
			file_name TEXT NOT NULL,
			file_path TEXT NOT NULL,
			file_type TEXT,
			file_size INTEGER DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	createSchema(t, db)
	return db
}

func truncateAll(db *gorm.DB) {
	db.Exec("DELETE FROM attachments")
	db.Exec("DELETE FROM task_assignees")
	db.Exec("DELETE FROM tasks")
	db.Exec("DELETE FROM project_invitations")
	db.Exec("DELETE FROM project_members")
	db.Exec("DELETE FROM projects")
	db.Exec("DELETE FROM users")
}

func insertUser(db *gorm.DB, username, email string) uuid.UUID {
	id := uuid.Must(uuid.NewV4())
	db.Exec("INSERT INTO users (id, username, email, password, role) VALUES (?, ?, ?, ?, ?)",
		id.String(), username, email, "x", "user")
	return id
}

func insertProject(db *gorm.DB, ownerID uuid.UUID, name string) uuid.UUID {
	id := uuid.Must(uuid.NewV4())
	db.Exec("INSERT INTO projects (id, name, description, owner_id, category) VALUES (?, ?, ?, ?, ?)",
		id.String(), name, "", ownerID.String(), "general")
	return id
}

func insertMember(db *gorm.DB, projectID, userID uuid.UUID) {
	db.Exec("INSERT INTO project_members (project_id, user_id) VALUES (?, ?)",
		projectID.String(), userID.String())
}

func insertTask(db *gorm.DB, projectID uuid.UUID, name string) uuid.UUID {
	id := uuid.Must(uuid.NewV4())
	db.Exec("INSERT INTO tasks (id, project_id, name, status) VALUES (?, ?, ?, ?)",
		id.String(), projectID.String(), name, "pending")
	return id
}

func insertAssignee(db *gorm.DB, taskID, userID uuid.UUID) {
	db.Exec("INSERT INTO task_assignees (task_id, user_id) VALUES (?, ?)",
		taskID.String(), userID.String())
}

func insertAttachment(db *gorm.DB, taskID uuid.UUID, fileName, storedName string) uuid.UUID {
	id := uuid.Must(uuid.NewV4())
	db.Exec("INSERT INTO attachments (id, task_id, file_name, file_path, file_type, file_size) VALUES (?, ?, ?, ?, ?, ?)",
		id.String(), taskID.String(), fileName, storedName, "text/plain", 42)
	return id
}

func insertInvitation(db *gorm.DB, projectID, userID, invitedBy uuid.UUID, status string) uuid.UUID {
	id := uuid.Must(uuid.NewV4())
	db.Exec("INSERT INTO project_invitations (id, project_id, user_id, invited_by, status) VALUES (?, ?, ?, ?, ?)",
		id.String(), projectID.String(), userID.String(), invitedBy.String(), status)
	return id
}

func countRows(db *gorm.DB, table, where string, args ...interface{}) int64 {
	var count int64
	db.Table(table).Where(where, args...).Count(&count)
	return count
}
