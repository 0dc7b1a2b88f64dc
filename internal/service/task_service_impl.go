package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/stats"
	"github.com/google/uuid"
)

type taskService struct {
	tasks repository.TaskRepo
	uow   db.UnitOfWork
	cache *stats.Cache
}

func NewTaskService(tasks repository.TaskRepo, uow db.UnitOfWork, cache *stats.Cache) TaskService {
	return &taskService{tasks: tasks, uow: uow, cache: cache}
}

func (s *taskService) Create(ctx context.Context, t *domain.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	if t.ParentID != nil {
		parent, err := s.tasks.GetByID(ctx, *t.ParentID)
		if err != nil {
			return fmt.Errorf("loading parent task: %w", err)
		}
		if parent.IsSubtask() {
			return domain.ErrMaxDepth
		}
		// Subtasks always live in the parent's project.
		t.ProjectID = parent.ProjectID
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		return err
	}
	if t.ParentID != nil {
		s.cache.Invalidate(*t.ParentID)
	}
	return nil
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *taskService) Update(ctx context.Context, t *domain.Task) error {
	t.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, t); err != nil {
		return err
	}
	s.invalidateLineage(ctx, t)
	return nil
}

func (s *taskService) SetEstimate(ctx context.Context, id string, seconds int64) (string, error) {
	if seconds < 0 {
		return "", fmt.Errorf("estimate must not be negative")
	}
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	snap, err := s.snapshot(ctx, t.ProjectID)
	if err != nil {
		return "", err
	}

	t.EstimatedSeconds = &seconds
	t.HasCustomEstimate = len(snap.ChildrenOf(t.ID)) > 0
	t.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, t); err != nil {
		return "", err
	}
	s.invalidateLineage(ctx, t)

	// A custom override below the children's sum is allowed but suspect.
	var warning string
	if t.HasCustomEstimate {
		if sum := stats.ChildEstimateSum(t, snap); sum > seconds {
			warning = fmt.Sprintf("estimate is below the subtask total (%ds < %ds)", seconds, sum)
		}
	}
	return warning, nil
}

func (s *taskService) ClearEstimate(ctx context.Context, id string) error {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	t.EstimatedSeconds = nil
	t.HasCustomEstimate = false
	t.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, t); err != nil {
		return err
	}
	s.invalidateLineage(ctx, t)
	return nil
}

func (s *taskService) Complete(ctx context.Context, id string, opts CompleteOptions) (*CompleteResult, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, t.ProjectID)
	if err != nil {
		return nil, err
	}

	if !opts.Force && stats.Status(t, snap) == domain.TaskBlocked {
		return nil, domain.ErrTaskBlocked
	}

	incomplete := stats.IncompleteChildren(t, snap)
	policy := opts.Children
	if policy == "" {
		policy = ChildAsk
	}
	if len(incomplete) > 0 && policy == ChildAsk {
		return &CompleteResult{ConflictingChildren: len(incomplete)}, nil
	}

	res := &CompleteResult{Applied: true}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		now := time.Now().UTC()

		if policy == ChildCascade {
			for _, child := range incomplete {
				child.IsCompleted = true
				child.UpdatedAt = now
				if err := txTasks.Update(ctx, child); err != nil {
					return err
				}
				res.CascadedChildren++
			}
		}
		t.IsCompleted = true
		t.UpdatedAt = now
		return txTasks.Update(ctx, t)
	})
	if err != nil {
		return nil, fmt.Errorf("completing task %s: %w", id, err)
	}
	s.invalidateLineage(ctx, t)
	for _, child := range incomplete {
		s.cache.Invalidate(child.ID)
	}
	return res, nil
}

func (s *taskService) Uncomplete(ctx context.Context, id string, children ChildPolicy) (*CompleteResult, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, t.ProjectID)
	if err != nil {
		return nil, err
	}

	completed := stats.CompletedChildren(t, snap)
	if children == "" {
		children = ChildAsk
	}
	if len(completed) > 0 && children == ChildAsk {
		return &CompleteResult{ConflictingChildren: len(completed)}, nil
	}

	res := &CompleteResult{Applied: true}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		now := time.Now().UTC()

		if children == ChildCascade {
			for _, child := range completed {
				child.IsCompleted = false
				child.UpdatedAt = now
				if err := txTasks.Update(ctx, child); err != nil {
					return err
				}
				res.CascadedChildren++
			}
		}
		t.IsCompleted = false
		t.UpdatedAt = now
		return txTasks.Update(ctx, t)
	})
	if err != nil {
		return nil, fmt.Errorf("uncompleting task %s: %w", id, err)
	}
	s.invalidateLineage(ctx, t)
	for _, child := range completed {
		s.cache.Invalidate(child.ID)
	}
	return res, nil
}

func (s *taskService) Move(ctx context.Context, id string, newParentID string) error {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if children, err := s.tasks.ListChildren(ctx, id); err != nil {
		return err
	} else if len(children) > 0 && newParentID != "" {
		return domain.ErrMaxDepth
	}

	if newParentID == "" {
		t.ParentID = nil
	} else {
		parent, err := s.tasks.GetByID(ctx, newParentID)
		if err != nil {
			return fmt.Errorf("loading new parent: %w", err)
		}
		if parent.IsSubtask() {
			return domain.ErrMaxDepth
		}
		t.ParentID = &parent.ID
		t.ProjectID = parent.ProjectID
	}
	t.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, t); err != nil {
		return err
	}
	// Both the old and new lineage totals changed; chasing each is not
	// worth it for a bulk-shaped mutation.
	s.cache.InvalidateAll()
	return nil
}

// Delete removes a task after clearing everything that references it:
// dependency edges in both directions, its time entries, and (for a
// parent) its subtasks with their own entries and edges.
func (s *taskService) Delete(ctx context.Context, id string) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txEntries := repository.NewSQLiteEntryRepo(tx)
		txDeps := repository.NewSQLiteDependencyRepo(tx)

		children, err := txTasks.ListChildren(ctx, id)
		if err != nil {
			return err
		}
		for _, child := range children {
			if err := txEntries.DeleteByTask(ctx, child.ID); err != nil {
				return err
			}
			if err := txDeps.DeleteAllFor(ctx, child.ID); err != nil {
				return err
			}
			if err := txTasks.Delete(ctx, child.ID); err != nil {
				return err
			}
		}
		if err := txEntries.DeleteByTask(ctx, id); err != nil {
			return err
		}
		if err := txDeps.DeleteAllFor(ctx, id); err != nil {
			return err
		}
		return txTasks.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	s.cache.InvalidateAll()
	return nil
}

func (s *taskService) snapshot(ctx context.Context, projectID string) (stats.Snapshot, error) {
	tasks, err := s.tasks.Snapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return stats.Snapshot(tasks), nil
}

// invalidateLineage drops cached stats for the task and its ancestors.
// Invalidation happens in the same call as the mutation; a re-render
// immediately afterwards must not see stale numbers.
func (s *taskService) invalidateLineage(ctx context.Context, t *domain.Task) {
	s.cache.Invalidate(t.ID)
	for parentID := t.ParentID; parentID != nil; {
		s.cache.Invalidate(*parentID)
		parent, err := s.tasks.GetByID(ctx, *parentID)
		if err != nil {
			s.cache.InvalidateAll()
			return
		}
		parentID = parent.ParentID
	}
}
