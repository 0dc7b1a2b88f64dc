package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/db"
)

// SQLiteDependencyRepo implements DependencyRepo using a SQLite database.
type SQLiteDependencyRepo struct {
	db db.DBTX
}

// NewSQLiteDependencyRepo creates a new SQLiteDependencyRepo.
func NewSQLiteDependencyRepo(conn db.DBTX) *SQLiteDependencyRepo {
	return &SQLiteDependencyRepo{db: conn}
}

func (r *SQLiteDependencyRepo) Create(ctx context.Context, taskID, dependsOnID string) error {
	query := `INSERT INTO dependencies (task_id, depends_on_id, created_at) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, taskID, dependsOnID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting dependency: %w", err)
	}
	return nil
}

func (r *SQLiteDependencyRepo) Delete(ctx context.Context, taskID, dependsOnID string) error {
	query := `DELETE FROM dependencies WHERE task_id = ? AND depends_on_id = ?`
	_, err := r.db.ExecContext(ctx, query, taskID, dependsOnID)
	if err != nil {
		return fmt.Errorf("deleting dependency: %w", err)
	}
	return nil
}

// ListDependencies returns the IDs of tasks the given task depends on.
func (r *SQLiteDependencyRepo) ListDependencies(ctx context.Context, taskID string) ([]string, error) {
	query := `SELECT depends_on_id FROM dependencies WHERE task_id = ?`
	return r.listIDs(ctx, query, taskID, "listing dependencies")
}

// ListDependents returns the IDs of tasks that depend on the given task.
func (r *SQLiteDependencyRepo) ListDependents(ctx context.Context, taskID string) ([]string, error) {
	query := `SELECT task_id FROM dependencies WHERE depends_on_id = ?`
	return r.listIDs(ctx, query, taskID, "listing dependents")
}

// DeleteAllFor removes every dependency edge touching the task, in either
// direction. Tasks must be unlinked before deletion so no dangling
// references survive.
func (r *SQLiteDependencyRepo) DeleteAllFor(ctx context.Context, taskID string) error {
	query := `DELETE FROM dependencies WHERE task_id = ? OR depends_on_id = ?`
	if _, err := r.db.ExecContext(ctx, query, taskID, taskID); err != nil {
		return fmt.Errorf("clearing dependencies: %w", err)
	}
	return nil
}

func (r *SQLiteDependencyRepo) listIDs(ctx context.Context, query, arg, action string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning dependency id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependency ids: %w", err)
	}
	return ids, nil
}
