package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','archived')),
		archived_at TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id                  TEXT PRIMARY KEY,
		project_id          TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id           TEXT REFERENCES tasks(id),
		title               TEXT NOT NULL,
		notes               TEXT NOT NULL DEFAULT '',
		is_completed        INTEGER NOT NULL DEFAULT 0,
		direct_seconds      INTEGER NOT NULL DEFAULT 0,
		estimated_seconds   INTEGER,
		has_custom_estimate INTEGER NOT NULL DEFAULT 0,
		expected_personnel  INTEGER,
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id)`,

	`CREATE TABLE IF NOT EXISTS time_entries (
		id              TEXT PRIMARY KEY,
		task_id         TEXT NOT NULL REFERENCES tasks(id),
		started_at      TEXT NOT NULL,
		ended_at        TEXT,
		personnel_count INTEGER NOT NULL DEFAULT 1 CHECK(personnel_count >= 1),
		created_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_time_entries_task ON time_entries(task_id)`,
	// At most one running timer per task.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_time_entries_open
		ON time_entries(task_id) WHERE ended_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS dependencies (
		task_id       TEXT NOT NULL REFERENCES tasks(id),
		depends_on_id TEXT NOT NULL REFERENCES tasks(id),
		created_at    TEXT NOT NULL,
		PRIMARY KEY (task_id, depends_on_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_dependencies_depends_on ON dependencies(depends_on_id)`,
}
