package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
)

// taskColumns is the canonical SELECT column list for tasks.
const taskColumns = `id, project_id, parent_id, title, notes, is_completed,
		direct_seconds, estimated_seconds, has_custom_estimate, expected_personnel,
		created_at, updated_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (id, project_id, parent_id, title, notes, is_completed,
		direct_seconds, estimated_seconds, has_custom_estimate, expected_personnel,
		created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		nullableStringToValue(t.ParentID),
		t.Title,
		t.Notes,
		boolToInt(t.IsCompleted),
		t.DirectSeconds,
		nullableInt64ToValue(t.EstimatedSeconds),
		boolToInt(t.HasCustomEstimate),
		nullableIntToValue(t.ExpectedPersonnelCount),
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, err
	}
	if err := r.attachRelations(ctx, []*domain.Task{t}); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks by project: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *SQLiteTaskRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE parent_id = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing child tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *SQLiteTaskRepo) Snapshot(ctx context.Context, projectID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var args []any
	if projectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("loading task snapshot: %w", err)
	}
	defer rows.Close()

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachRelations(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET project_id = ?, parent_id = ?, title = ?, notes = ?,
		is_completed = ?, direct_seconds = ?, estimated_seconds = ?,
		has_custom_estimate = ?, expected_personnel = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.ProjectID,
		nullableStringToValue(t.ParentID),
		t.Title,
		t.Notes,
		boolToInt(t.IsCompleted),
		t.DirectSeconds,
		nullableInt64ToValue(t.EstimatedSeconds),
		boolToInt(t.HasCustomEstimate),
		nullableIntToValue(t.ExpectedPersonnelCount),
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireRowAffected(res, "task", t.ID)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireRowAffected(res, "task", id)
}

// attachRelations loads time entries and dependency IDs for the given
// tasks. Snapshot loads must be complete: the aggregation layer never
// goes back to the database.
func (r *SQLiteTaskRepo) attachRelations(ctx context.Context, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	entryQuery := `SELECT id, task_id, started_at, ended_at, personnel_count, created_at
		FROM time_entries ORDER BY started_at`
	rows, err := r.db.QueryContext(ctx, entryQuery)
	if err != nil {
		return fmt.Errorf("loading time entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return err
		}
		if t, ok := byID[e.TaskID]; ok {
			t.TimeEntries = append(t.TimeEntries, e)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating time entries: %w", err)
	}

	depQuery := `SELECT task_id, depends_on_id FROM dependencies`
	depRows, err := r.db.QueryContext(ctx, depQuery)
	if err != nil {
		return fmt.Errorf("loading dependencies: %w", err)
	}
	defer depRows.Close()
	for depRows.Next() {
		var taskID, dependsOnID string
		if err := depRows.Scan(&taskID, &dependsOnID); err != nil {
			return fmt.Errorf("scanning dependency: %w", err)
		}
		if t, ok := byID[taskID]; ok {
			t.DependsOn = append(t.DependsOn, dependsOnID)
		}
	}
	if err := depRows.Err(); err != nil {
		return fmt.Errorf("iterating dependencies: %w", err)
	}
	return nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var parentID sql.NullString
	var isCompleted, hasCustomEstimate int
	var estimatedSeconds sql.NullInt64
	var expectedPersonnel sql.NullInt64
	var createdAt, updatedAt string
	err := row.Scan(
		&t.ID,
		&t.ProjectID,
		&parentID,
		&t.Title,
		&t.Notes,
		&isCompleted,
		&t.DirectSeconds,
		&estimatedSeconds,
		&hasCustomEstimate,
		&expectedPersonnel,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task not found")
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	if parentID.Valid {
		t.ParentID = &parentID.String
	}
	t.IsCompleted = intToBool(isCompleted)
	t.HasCustomEstimate = intToBool(hasCustomEstimate)
	if estimatedSeconds.Valid {
		v := estimatedSeconds.Int64
		t.EstimatedSeconds = &v
	}
	if expectedPersonnel.Valid {
		v := int(expectedPersonnel.Int64)
		t.ExpectedPersonnelCount = &v
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &t, nil
}

func scanTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}
