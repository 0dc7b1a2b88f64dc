package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/stats"
)

type dependencyService struct {
	tasks repository.TaskRepo
	deps  repository.DependencyRepo
	cache *stats.Cache
}

func NewDependencyService(tasks repository.TaskRepo, deps repository.DependencyRepo, cache *stats.Cache) DependencyService {
	return &dependencyService{tasks: tasks, deps: deps, cache: cache}
}

func (s *dependencyService) Add(ctx context.Context, taskID, dependsOnID string) error {
	if taskID == dependsOnID {
		return domain.ErrCircularDependency
	}
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if _, err := s.tasks.GetByID(ctx, dependsOnID); err != nil {
		return fmt.Errorf("loading dependency target: %w", err)
	}
	if t.DependsOnTask(dependsOnID) {
		return nil
	}

	tasks, err := s.tasks.Snapshot(ctx, "")
	if err != nil {
		return err
	}
	if reachable(stats.Snapshot(tasks), dependsOnID, taskID) {
		return domain.ErrCircularDependency
	}

	if err := s.deps.Create(ctx, taskID, dependsOnID); err != nil {
		return err
	}
	s.cache.Invalidate(taskID)
	return nil
}

func (s *dependencyService) Remove(ctx context.Context, taskID, dependsOnID string) error {
	if err := s.deps.Delete(ctx, taskID, dependsOnID); err != nil {
		return err
	}
	s.cache.Invalidate(taskID)
	return nil
}

// reachable walks the dependency graph from start and reports whether
// target can be reached. Adding start -> ... -> target while target is
// about to depend on start would close a cycle.
func reachable(all stats.Snapshot, start, target string) bool {
	visited := make(map[string]bool)
	stack := []string{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == target {
			return true
		}
		if visited[id] {
			continue
		}
		visited[id] = true
		if t := all.ByID(id); t != nil {
			stack = append(stack, t.DependsOn...)
		}
	}
	return false
}
