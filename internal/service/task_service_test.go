package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTask_SubtaskInheritsProject(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	projectID := seedProject(t, env, "Alpha")
	otherID := seedProject(t, env, "Beta")
	parent := testutil.NewTestTask(projectID, "Parent")
	seedTask(t, env, parent)

	svc := NewTaskService(env.tasks, env.uow, env.cache)
	sub := testutil.NewTestTask(otherID, "Sub", testutil.WithParent(parent.ID))
	require.NoError(t, svc.Create(ctx, sub))

	loaded, err := env.tasks.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, projectID, loaded.ProjectID, "subtask lives in its parent's project")
}

func TestCreateTask_RejectsThirdLevel(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	projectID := seedProject(t, env, "Alpha")
	parent := testutil.NewTestTask(projectID, "Parent")
	seedTask(t, env, parent)
	sub := testutil.NewTestTask(projectID, "Sub", testutil.WithParent(parent.ID))
	seedTask(t, env, sub)

	svc := NewTaskService(env.tasks, env.uow, env.cache)
	grandchild := testutil.NewTestTask(projectID, "Too deep", testutil.WithParent(sub.ID))
	err := svc.Create(ctx, grandchild)
	assert.ErrorIs(t, err, domain.ErrMaxDepth)
}

func TestComplete_AskReportsConflictWithoutApplying(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	projectID := seedProject(t, env, "Alpha")
	parent := testutil.NewTestTask(projectID, "Parent")
	seedTask(t, env, parent)
	c1 := testutil.NewTestTask(projectID, "C1", testutil.WithParent(parent.ID))
	c2 := testutil.NewTestTask(projectID, "C2", testutil.WithParent(parent.ID), testutil.WithCompleted())
	seedTask(t, env, c1)
	seedTask(t, env, c2)

	svc := NewTaskService(env.tasks, env.uow, env.cache)
	res, err := svc.Complete(ctx, parent.ID, CompleteOptions{})
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, 1, res.ConflictingChildren)

	loaded, err := env.tasks.GetByID(ctx, parent.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsCompleted, "nothing changes until the caller decides")
}

func TestComplete_CascadeCompletesChildren(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	projectID := seedProject(t, env, "Alpha")
	parent := testutil.NewTestTask(projectID, "Parent")
	seedTask(t, env, parent)
	c1 := testutil.NewTestTask(projectID, "C1", testutil.WithParent(parent.ID))
	c2 := testutil.NewTestTask(projectID, "C2", testutil.WithParent(parent.ID))
	seedTask(t, env, c1)
	seedTask(t, env, c2)

	svc := NewTaskService(env.tasks, env.uow, env.cache)
	res, err := svc.Complete(ctx, parent.ID, CompleteOptions{Children: ChildCascade})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, 2, res.CascadedChildren)

	for _, id := range []string{parent.ID, c1.ID, c2.ID} {
		loaded, err := env.tasks.GetByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, loaded.IsCompleted)
	}
}

func TestComplete_KeepLeavesChildrenOpen(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	projectID := seedProject(t, env, "Alpha")
	parent := testutil.NewTestTask(projectID, "Parent")
	seedTask(t, env, parent)
	child := testutil.NewTestTask(projectID, "C1", testutil.WithParent(parent.ID))
	seedTask(t, env, child)

	svc := NewTaskService(env.tasks, env.uow, env.cache)
	res, err := svc.Complete(ctx, parent.ID, CompleteOptions{Children: ChildKeep})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Zero(t, res.CascadedChildren)

	loadedChild, err := env.tasks.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.False(t, loadedChild.IsCompleted)
	loadedParent, err := env.tasks.GetByID(ctx, parent.ID)
	require.NoError(t, err)
	assert.True(t, loadedParent.IsCompleted)
}

func TestComplete_BlockedNeedsForce(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	projectID := seedProject(t, env, "Alpha")
	dep := testutil.NewTestTask(projectID, "Dep")
	seedTask(t, env, dep)
	task := testutil.NewTestTask(projectID, "Blocked", testutil.WithDependsOn(dep.ID))
	seedTask(t, env, task)

	svc := NewTaskService(env.tasks, env.uow, env.cache)
	_, err := svc.Complete(ctx, task.ID, CompleteOptions{})
	assert.ErrorIs(t, err, domain.ErrTaskBlocked)

	res, err := svc.Complete(ctx, task.ID, CompleteOptions{Force: true})
	require.NoError(t, err)
	assert.True(t, res.Applied)
}

func TestUncomplete_CascadeReopensChildren(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	projectID := seedProject(t, env, "Alpha")
	parent := testutil.NewTestTask(projectID, "Parent", testutil.WithCompleted())
	seedTask(t, env, parent)
	child := testutil.NewTestTask(projectID, "C1", testutil.WithParent(parent.ID), testutil.WithCompleted())
	seedTask(t, env, child)

	svc := NewTaskService(env.tasks, env.uow, env.cache)

	ask, err := svc.Uncomplete(ctx, parent.ID, ChildAsk)
	require.NoError(t, err)
	assert.False(t, ask.Applied)
	assert.Equal(t, 1, ask.ConflictingChildren)

	res, err := svc.Uncomplete(ctx, parent.ID, ChildCascade)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, 1, res.CascadedChildren)

	loaded, err := env.tasks.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsCompleted)
}

func TestSetEstimate_WarnsBelowSubtaskTotal(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	projectID := seedProject(t, env, "Alpha")
	parent := testutil.NewTestTask(projectID, "Parent")
	seedTask(t, env, parent)
	child := testutil.NewTestTask(projectID, "C1",
		testutil.WithParent(parent.ID), testutil.WithEstimate(7200))
	seedTask(t, env, child)

	svc := NewTaskService(env.tasks, env.uow, env.cache)
	warning, err := svc.SetEstimate(ctx, parent.ID, 3600)
	require.NoError(t, err)
	assert.NotEmpty(t, warning, "override below the children's sum is allowed but flagged")

	loaded, err := env.tasks.GetByID(ctx, parent.ID)
	require.NoError(t, err)
	assert.True(t, loaded.HasCustomEstimate)
	require.NotNil(t, loaded.EstimatedSeconds)
	assert.Equal(t, int64(3600), *loaded.EstimatedSeconds)
}

func TestClearEstimate_RestoresAutoSum(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	projectID := seedProject(t, env, "Alpha")
	parent := testutil.NewTestTask(projectID, "Parent")
	seedTask(t, env, parent)
	child := testutil.NewTestTask(projectID, "C1",
		testutil.WithParent(parent.ID), testutil.WithEstimate(7200))
	seedTask(t, env, child)

	svc := NewTaskService(env.tasks, env.uow, env.cache)
	_, err := svc.SetEstimate(ctx, parent.ID, 3600)
	require.NoError(t, err)
	require.NoError(t, svc.ClearEstimate(ctx, parent.ID))

	loaded, err := env.tasks.GetByID(ctx, parent.ID)
	require.NoError(t, err)
	assert.False(t, loaded.HasCustomEstimate)
	assert.Nil(t, loaded.EstimatedSeconds)
}

func TestMove_ReparentsAndSwitchesProject(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	alphaID := seedProject(t, env, "Alpha")
	betaID := seedProject(t, env, "Beta")
	oldParent := testutil.NewTestTask(alphaID, "Old parent")
	newParent := testutil.NewTestTask(betaID, "New parent")
	seedTask(t, env, oldParent)
	seedTask(t, env, newParent)
	sub := testutil.NewTestTask(alphaID, "Sub", testutil.WithParent(oldParent.ID))
	seedTask(t, env, sub)

	svc := NewTaskService(env.tasks, env.uow, env.cache)
	require.NoError(t, svc.Move(ctx, sub.ID, newParent.ID))

	loaded, err := env.tasks.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.ParentID)
	assert.Equal(t, newParent.ID, *loaded.ParentID)
	assert.Equal(t, betaID, loaded.ProjectID)
}

func TestMove_RejectsDepthViolations(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	projectID := seedProject(t, env, "Alpha")
	parent := testutil.NewTestTask(projectID, "Parent")
	seedTask(t, env, parent)
	sub := testutil.NewTestTask(projectID, "Sub", testutil.WithParent(parent.ID))
	seedTask(t, env, sub)
	other := testutil.NewTestTask(projectID, "Other")
	seedTask(t, env, other)

	svc := NewTaskService(env.tasks, env.uow, env.cache)

	// Moving under a subtask would make a third level.
	err := svc.Move(ctx, other.ID, sub.ID)
	assert.ErrorIs(t, err, domain.ErrMaxDepth)

	// Moving a parent with children under another task likewise.
	err = svc.Move(ctx, parent.ID, other.ID)
	assert.ErrorIs(t, err, domain.ErrMaxDepth)
}

func TestMove_PromoteToTopLevel(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	projectID := seedProject(t, env, "Alpha")
	parent := testutil.NewTestTask(projectID, "Parent")
	seedTask(t, env, parent)
	sub := testutil.NewTestTask(projectID, "Sub", testutil.WithParent(parent.ID))
	seedTask(t, env, sub)

	svc := NewTaskService(env.tasks, env.uow, env.cache)
	require.NoError(t, svc.Move(ctx, sub.ID, ""))

	loaded, err := env.tasks.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.ParentID)
}

func TestDeleteTask_ClearsSubtasksEntriesAndEdges(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	projectID := seedProject(t, env, "Alpha")
	parent := testutil.NewTestTask(projectID, "Parent")
	seedTask(t, env, parent)
	child := testutil.NewTestTask(projectID, "C1",
		testutil.WithParent(parent.ID),
		testutil.WithEntries(testutil.ClosedEntry(testNow.Add(-2*time.Hour), time.Hour, 1)))
	seedTask(t, env, child)
	other := testutil.NewTestTask(projectID, "Other", testutil.WithDependsOn(parent.ID))
	seedTask(t, env, other)

	svc := NewTaskService(env.tasks, env.uow, env.cache)
	require.NoError(t, svc.Delete(ctx, parent.ID))

	_, err := env.tasks.GetByID(ctx, parent.ID)
	assert.Error(t, err)
	_, err = env.tasks.GetByID(ctx, child.ID)
	assert.Error(t, err, "subtasks go with their parent")

	entries, err := env.entries.ListByTask(ctx, child.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	depIDs, err := env.deps.ListDependencies(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, depIDs, "inbound dependency edges are removed too")
}
