package cli

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/service"
	"github.com/alexanderramin/tempo/internal/stats"
	"github.com/alexanderramin/tempo/internal/teatest"
	"github.com/alexanderramin/tempo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type watchFixture struct {
	app    *App
	taskID string
	timers service.TimerService
}

func newWatchFixture(t *testing.T) *watchFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	tasks := repository.NewSQLiteTaskRepo(database)
	entries := repository.NewSQLiteEntryRepo(database)
	projects := repository.NewSQLiteProjectRepo(database)
	uow := testutil.NewTestUoW(database)
	cache := stats.NewCacheWithClock(0, time.Now)

	ctx := context.Background()
	project := testutil.NewTestProject("Garage")
	require.NoError(t, projects.Create(ctx, project))
	task := testutil.NewTestTask(project.ID, "Welding", testutil.WithDirectSeconds(3600))
	require.NoError(t, tasks.Create(ctx, task))

	return &watchFixture{
		app:    &App{Stats: service.NewStatsService(tasks, cache)},
		taskID: task.ID,
		timers: service.NewTimerService(tasks, entries, uow, cache),
	}
}

func TestWatchView_RendersOverviewAfterLoad(t *testing.T) {
	f := newWatchFixture(t)

	d := teatest.New(t, newWatchModel(f.app, f.taskID))
	d.DrainInit()

	view := d.View()
	assert.Contains(t, view, "Welding")
	assert.Contains(t, view, "q to quit")
	assert.NotContains(t, view, "loading")
}

func TestWatchView_TickReloadsFreshTotals(t *testing.T) {
	f := newWatchFixture(t)

	d := teatest.New(t, newWatchModel(f.app, f.taskID))
	d.DrainInit()
	assert.Contains(t, d.View(), "1h00m")

	_, err := f.timers.AddManualEntry(context.Background(), f.taskID,
		time.Now().Add(-time.Hour), time.Now().Add(-30*time.Minute), 1)
	require.NoError(t, err)

	d.Send(watchTickMsg(time.Now()))
	assert.Contains(t, d.View(), "1h30m")
}

func TestWatchView_QuitKeys(t *testing.T) {
	f := newWatchFixture(t)

	d := teatest.New(t, newWatchModel(f.app, f.taskID))
	d.DrainInit()

	d.Press('q')
	assert.True(t, d.Quitting)
}

func TestWatchView_EscQuits(t *testing.T) {
	f := newWatchFixture(t)

	d := teatest.New(t, newWatchModel(f.app, f.taskID))
	d.DrainInit()

	d.PressEsc()
	assert.True(t, d.Quitting)
}

func TestWatchView_ShowsLoadError(t *testing.T) {
	f := newWatchFixture(t)

	d := teatest.New(t, newWatchModel(f.app, "no-such-task"))
	d.DrainInit()

	assert.Contains(t, d.View(), "error")
}
