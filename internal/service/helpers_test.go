package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/stats"
	"github.com/alexanderramin/tempo/internal/testutil"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	projects *repository.SQLiteProjectRepo
	tasks    *repository.SQLiteTaskRepo
	entries  *repository.SQLiteEntryRepo
	deps     *repository.SQLiteDependencyRepo
	uow      db.UnitOfWork
	cache    *stats.Cache
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &testEnv{
		projects: repository.NewSQLiteProjectRepo(database),
		tasks:    repository.NewSQLiteTaskRepo(database),
		entries:  repository.NewSQLiteEntryRepo(database),
		deps:     repository.NewSQLiteDependencyRepo(database),
		uow:      testutil.NewTestUoW(database),
		cache:    stats.NewCacheWithClock(0, time.Now), // zero TTL: every read recomputes
	}
}

// seedProject creates a project and returns its ID.
func seedProject(t *testing.T, env *testEnv, name string) string {
	t.Helper()
	p := testutil.NewTestProject(name)
	require.NoError(t, env.projects.Create(context.Background(), p))
	return p.ID
}

// seedTask persists a fixture task along with its entries and
// dependency edges.
func seedTask(t *testing.T, env *testEnv, task *domain.Task) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, env.tasks.Create(ctx, task))
	for _, e := range task.TimeEntries {
		require.NoError(t, env.entries.Create(ctx, e))
	}
	for _, depID := range task.DependsOn {
		require.NoError(t, env.deps.Create(ctx, task.ID, depID))
	}
}
