package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
)

// entryColumns is the canonical SELECT column list for time_entries.
const entryColumns = `id, task_id, started_at, ended_at, personnel_count, created_at`

// SQLiteEntryRepo implements EntryRepo using a SQLite database.
type SQLiteEntryRepo struct {
	db db.DBTX
}

// NewSQLiteEntryRepo creates a new SQLiteEntryRepo.
func NewSQLiteEntryRepo(conn db.DBTX) *SQLiteEntryRepo {
	return &SQLiteEntryRepo{db: conn}
}

func (r *SQLiteEntryRepo) Create(ctx context.Context, e *domain.TimeEntry) error {
	query := `INSERT INTO time_entries (id, task_id, started_at, ended_at, personnel_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.TaskID,
		e.StartedAt.Format(time.RFC3339),
		nullableTimeToString(e.EndedAt, time.RFC3339),
		e.Personnel(),
		e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting time entry: %w", err)
	}
	return nil
}

func (r *SQLiteEntryRepo) GetByID(ctx context.Context, id string) (*domain.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	e, err := scanEntry(row)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetOpenByTask returns the task's running entry, or nil when no timer
// is open.
func (r *SQLiteEntryRepo) GetOpenByTask(ctx context.Context, taskID string) (*domain.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE task_id = ? AND ended_at IS NULL`
	row := r.db.QueryRowContext(ctx, query, taskID)
	e, err := scanEntry(row)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

func (r *SQLiteEntryRepo) ListByTask(ctx context.Context, taskID string) ([]*domain.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE task_id = ? ORDER BY started_at`
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing time entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating time entries: %w", err)
	}
	return entries, nil
}

func (r *SQLiteEntryRepo) Update(ctx context.Context, e *domain.TimeEntry) error {
	query := `UPDATE time_entries SET started_at = ?, ended_at = ?, personnel_count = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		e.StartedAt.Format(time.RFC3339),
		nullableTimeToString(e.EndedAt, time.RFC3339),
		e.Personnel(),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating time entry: %w", err)
	}
	return requireRowAffected(res, "time entry", e.ID)
}

func (r *SQLiteEntryRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM time_entries WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting time entry: %w", err)
	}
	return requireRowAffected(res, "time entry", id)
}

func (r *SQLiteEntryRepo) DeleteByTask(ctx context.Context, taskID string) error {
	query := `DELETE FROM time_entries WHERE task_id = ?`
	if _, err := r.db.ExecContext(ctx, query, taskID); err != nil {
		return fmt.Errorf("deleting task time entries: %w", err)
	}
	return nil
}

func scanEntry(row rowScanner) (*domain.TimeEntry, error) {
	var e domain.TimeEntry
	var startedAt, createdAt string
	var endedAt sql.NullString
	if err := row.Scan(&e.ID, &e.TaskID, &startedAt, &endedAt, &e.PersonnelCount, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, errEntryNotFound
		}
		return nil, fmt.Errorf("scanning time entry: %w", err)
	}
	e.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	e.EndedAt = parseNullableTime(endedAt, time.RFC3339)
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &e, nil
}

var errEntryNotFound = fmt.Errorf("time entry not found")

func isNotFound(err error) bool {
	return err == errEntryNotFound
}
