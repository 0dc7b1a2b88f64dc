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

func TestCreateProject_DefaultsToActive(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	svc := NewProjectService(env.projects, env.uow, env.cache)
	p := &domain.Project{Name: "Garage"}
	require.NoError(t, svc.Create(ctx, p))
	assert.NotEmpty(t, p.ID)

	loaded, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectActive, loaded.Status)
}

func TestListProjects_FiltersArchived(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	svc := NewProjectService(env.projects, env.uow, env.cache)
	active := &domain.Project{Name: "Active"}
	archived := &domain.Project{Name: "Old"}
	require.NoError(t, svc.Create(ctx, active))
	require.NoError(t, svc.Create(ctx, archived))
	require.NoError(t, svc.Archive(ctx, archived.ID))

	visible, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, active.ID, visible[0].ID)

	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteProject_RemovesEverythingBeneath(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	projectID := seedProject(t, env, "Doomed")
	keepID := seedProject(t, env, "Kept")

	parent := testutil.NewTestTask(projectID, "Parent")
	seedTask(t, env, parent)
	sub := testutil.NewTestTask(projectID, "Sub",
		testutil.WithParent(parent.ID),
		testutil.WithEntries(testutil.ClosedEntry(testNow, time.Hour, 1)))
	seedTask(t, env, sub)
	kept := testutil.NewTestTask(keepID, "Survivor")
	seedTask(t, env, kept)

	svc := NewProjectService(env.projects, env.uow, env.cache)
	require.NoError(t, svc.Delete(ctx, projectID))

	_, err := env.projects.GetByID(ctx, projectID)
	assert.Error(t, err)
	remaining, err := env.tasks.Snapshot(ctx, "")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)

	entries, err := env.entries.ListByTask(ctx, sub.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
