package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/stats"
	"github.com/alexanderramin/tempo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDependency_Basic(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	projectID := seedProject(t, env, "Build")
	foundation := testutil.NewTestTask(projectID, "Foundation")
	walls := testutil.NewTestTask(projectID, "Walls")
	seedTask(t, env, foundation)
	seedTask(t, env, walls)

	svc := NewDependencyService(env.tasks, env.deps, env.cache)
	require.NoError(t, svc.Add(ctx, walls.ID, foundation.ID))

	loaded, err := env.tasks.GetByID(ctx, walls.ID)
	require.NoError(t, err)
	assert.True(t, loaded.DependsOnTask(foundation.ID))

	// Adding the same edge again is a no-op, not an error.
	require.NoError(t, svc.Add(ctx, walls.ID, foundation.ID))
	loaded, err = env.tasks.GetByID(ctx, walls.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.DependsOn, 1)
}

func TestAddDependency_RejectsSelf(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	projectID := seedProject(t, env, "Build")
	task := testutil.NewTestTask(projectID, "Solo")
	seedTask(t, env, task)

	svc := NewDependencyService(env.tasks, env.deps, env.cache)
	err := svc.Add(ctx, task.ID, task.ID)
	assert.ErrorIs(t, err, domain.ErrCircularDependency)
}

func TestAddDependency_RejectsDirectCycle(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	projectID := seedProject(t, env, "Build")
	a := testutil.NewTestTask(projectID, "A")
	b := testutil.NewTestTask(projectID, "B")
	seedTask(t, env, a)
	seedTask(t, env, b)

	svc := NewDependencyService(env.tasks, env.deps, env.cache)
	require.NoError(t, svc.Add(ctx, b.ID, a.ID))

	err := svc.Add(ctx, a.ID, b.ID)
	assert.ErrorIs(t, err, domain.ErrCircularDependency)
}

func TestAddDependency_RejectsTransitiveCycle(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	projectID := seedProject(t, env, "Build")
	a := testutil.NewTestTask(projectID, "A")
	b := testutil.NewTestTask(projectID, "B")
	c := testutil.NewTestTask(projectID, "C")
	seedTask(t, env, a)
	seedTask(t, env, b)
	seedTask(t, env, c)

	svc := NewDependencyService(env.tasks, env.deps, env.cache)
	require.NoError(t, svc.Add(ctx, b.ID, a.ID))
	require.NoError(t, svc.Add(ctx, c.ID, b.ID))

	// a -> c would close a -> c -> b -> a.
	err := svc.Add(ctx, a.ID, c.ID)
	assert.ErrorIs(t, err, domain.ErrCircularDependency)
}

func TestAddDependency_UnknownTarget(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	projectID := seedProject(t, env, "Build")
	task := testutil.NewTestTask(projectID, "Solo")
	seedTask(t, env, task)

	svc := NewDependencyService(env.tasks, env.deps, env.cache)
	err := svc.Add(ctx, task.ID, "no-such-id")
	assert.Error(t, err)
}

func TestRemoveDependency_UnblocksTask(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	projectID := seedProject(t, env, "Build")
	foundation := testutil.NewTestTask(projectID, "Foundation")
	walls := testutil.NewTestTask(projectID, "Walls")
	seedTask(t, env, foundation)
	seedTask(t, env, walls)

	svc := NewDependencyService(env.tasks, env.deps, env.cache)
	require.NoError(t, svc.Add(ctx, walls.ID, foundation.ID))

	snap, err := env.tasks.Snapshot(ctx, projectID)
	require.NoError(t, err)
	all := stats.Snapshot(snap)
	assert.Equal(t, domain.TaskBlocked, stats.Status(all.ByID(walls.ID), all))

	require.NoError(t, svc.Remove(ctx, walls.ID, foundation.ID))

	snap, err = env.tasks.Snapshot(ctx, projectID)
	require.NoError(t, err)
	all = stats.Snapshot(snap)
	assert.Equal(t, domain.TaskReady, stats.Status(all.ByID(walls.ID), all))
}

func TestCompletingDependency_UnblocksDependent(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	projectID := seedProject(t, env, "Build")
	foundation := testutil.NewTestTask(projectID, "Foundation")
	seedTask(t, env, foundation)
	walls := testutil.NewTestTask(projectID, "Walls", testutil.WithDependsOn(foundation.ID))
	seedTask(t, env, walls)

	taskSvc := NewTaskService(env.tasks, env.uow, env.cache)
	_, err := taskSvc.Complete(ctx, foundation.ID, CompleteOptions{})
	require.NoError(t, err)

	snap, err := env.tasks.Snapshot(ctx, projectID)
	require.NoError(t, err)
	all := stats.Snapshot(snap)
	assert.Equal(t, domain.TaskReady, stats.Status(all.ByID(walls.ID), all))
}
