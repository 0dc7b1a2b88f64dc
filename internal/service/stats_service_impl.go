package service

import (
	"context"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/stats"
)

type statsService struct {
	tasks repository.TaskRepo
	cache *stats.Cache
	clock func() time.Time
}

func NewStatsService(tasks repository.TaskRepo, cache *stats.Cache) StatsService {
	return &statsService{tasks: tasks, cache: cache, clock: time.Now}
}

// NewStatsServiceWithClock is for tests that need a pinned clock.
func NewStatsServiceWithClock(tasks repository.TaskRepo, cache *stats.Cache, clock func() time.Time) StatsService {
	return &statsService{tasks: tasks, cache: cache, clock: clock}
}

func (s *statsService) TaskStats(ctx context.Context, taskID string) (stats.AggregatedStats, error) {
	t, snap, err := s.load(ctx, taskID)
	if err != nil {
		return stats.AggregatedStats{}, err
	}
	return s.cache.Stats(t, snap, s.clock().UTC()), nil
}

func (s *statsService) Overview(ctx context.Context, taskID string) (*TaskOverview, error) {
	t, snap, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return s.overview(t, snap), nil
}

func (s *statsService) ProjectReport(ctx context.Context, projectID string) ([]*TaskOverview, error) {
	snap, err := s.Snapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var report []*TaskOverview
	for _, t := range snap.Roots() {
		report = append(report, s.overview(t, snap))
	}
	return report, nil
}

func (s *statsService) Snapshot(ctx context.Context, projectID string) (stats.Snapshot, error) {
	tasks, err := s.tasks.Snapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return stats.Snapshot(tasks), nil
}

func (s *statsService) overview(t *domain.Task, snap stats.Snapshot) *TaskOverview {
	now := s.clock().UTC()
	return &TaskOverview{
		Task:                  t,
		Stats:                 s.cache.Stats(t, snap, now),
		Status:                stats.Status(t, snap),
		BlockingDependencies:  stats.BlockingDependencies(t, snap),
		BlockingFromSubtasks:  stats.BlockingSubtaskDependencies(t, snap),
		EffectiveEstimateSecs: stats.EffectiveEstimate(t, snap),
		Variance:              stats.Variance(t, snap, now),
	}
}

// load fetches the snapshot for the task's project and locates the task
// inside it, so derivations and aggregation read one consistent view.
func (s *statsService) load(ctx context.Context, taskID string) (*domain.Task, stats.Snapshot, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	snap, err := s.Snapshot(ctx, t.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	if inSnap := snap.ByID(taskID); inSnap != nil {
		t = inSnap
	}
	return t, snap, nil
}
