package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_Idempotent(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	// OpenDB already migrated; a second run must be harmless.
	require.NoError(t, Migrate(database))

	for _, table := range []string{"projects", "tasks", "time_entries", "dependencies"} {
		var name string
		err := database.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
	}
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	uow := NewSQLiteUnitOfWork(database)
	ctx := context.Background()

	insert := func(ctx context.Context, tx DBTX, id string) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO projects (id, name, status, created_at, updated_at)
			 VALUES (?, ?, 'active', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`,
			id, "p-"+id)
		return err
	}

	err = uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		if err := insert(ctx, tx, "a"); err != nil {
			return err
		}
		// Duplicate primary key forces the whole transaction to abort.
		return insert(ctx, tx, "a")
	})
	require.Error(t, err)

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM projects`).Scan(&count))
	assert.Zero(t, count, "failed transaction must leave no rows behind")
}
