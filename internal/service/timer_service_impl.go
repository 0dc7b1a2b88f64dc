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

type timerService struct {
	tasks   repository.TaskRepo
	entries repository.EntryRepo
	uow     db.UnitOfWork
	cache   *stats.Cache
	clock   func() time.Time
}

func NewTimerService(tasks repository.TaskRepo, entries repository.EntryRepo, uow db.UnitOfWork, cache *stats.Cache) TimerService {
	return &timerService{
		tasks:   tasks,
		entries: entries,
		uow:     uow,
		cache:   cache,
		clock:   time.Now,
	}
}

// NewTimerServiceWithClock is for tests that need a pinned clock.
func NewTimerServiceWithClock(tasks repository.TaskRepo, entries repository.EntryRepo, uow db.UnitOfWork, cache *stats.Cache, clock func() time.Time) TimerService {
	return &timerService{tasks: tasks, entries: entries, uow: uow, cache: cache, clock: clock}
}

func (s *timerService) Start(ctx context.Context, taskID string, force bool) (*domain.TimeEntry, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.HasActiveTimer() {
		return nil, domain.ErrTimerAlreadyRunning
	}
	if !force {
		snap, err := s.snapshot(ctx, t.ProjectID)
		if err != nil {
			return nil, err
		}
		if stats.Status(t, snap) == domain.TaskBlocked {
			return nil, domain.ErrTaskBlocked
		}
	}

	now := s.clock().UTC()
	entry := &domain.TimeEntry{
		ID:             uuid.New().String(),
		TaskID:         t.ID,
		StartedAt:      now,
		PersonnelCount: t.DefaultPersonnel(),
		CreatedAt:      now,
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("starting timer on task %s: %w", taskID, err)
	}
	s.invalidateLineage(ctx, t)
	return entry, nil
}

func (s *timerService) Stop(ctx context.Context, taskID string) (*StopResult, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	open := t.OpenEntry()
	if open == nil {
		return nil, domain.ErrNoActiveTimer
	}

	now := s.clock().UTC()
	elapsed := open.Seconds(now)
	stored := domain.RoundSecondsToMinute(elapsed)

	// Closing the entry and folding its time into the stored total must
	// land together.
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txEntries := repository.NewSQLiteEntryRepo(tx)

		open.EndedAt = &now
		if err := txEntries.Update(ctx, open); err != nil {
			return err
		}
		t.DirectSeconds += stored
		t.UpdatedAt = now
		return txTasks.Update(ctx, t)
	})
	if err != nil {
		return nil, fmt.Errorf("stopping timer on task %s: %w", taskID, err)
	}
	s.invalidateLineage(ctx, t)
	return &StopResult{Entry: open, ElapsedSeconds: elapsed, StoredSeconds: stored}, nil
}

func (s *timerService) AddManualEntry(ctx context.Context, taskID string, start, end time.Time, personnel int) (*domain.TimeEntry, error) {
	if personnel < 1 {
		return nil, fmt.Errorf("personnel count must be at least 1")
	}
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	now := s.clock().UTC()
	endUTC := end.UTC()
	entry := &domain.TimeEntry{
		ID:             uuid.New().String(),
		TaskID:         t.ID,
		StartedAt:      start.UTC(),
		EndedAt:        &endUTC,
		PersonnelCount: personnel,
		CreatedAt:      now,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	stored := domain.RoundSecondsToMinute(entry.Seconds(now))
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txEntries := repository.NewSQLiteEntryRepo(tx)

		if err := txEntries.Create(ctx, entry); err != nil {
			return err
		}
		t.DirectSeconds += stored
		t.UpdatedAt = now
		return txTasks.Update(ctx, t)
	})
	if err != nil {
		return nil, fmt.Errorf("adding entry to task %s: %w", taskID, err)
	}
	s.invalidateLineage(ctx, t)
	return entry, nil
}

func (s *timerService) EditEntry(ctx context.Context, entryID string, start, end time.Time) error {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.Running() {
		return fmt.Errorf("cannot edit a running timer; stop it first")
	}
	t, err := s.tasks.GetByID(ctx, entry.TaskID)
	if err != nil {
		return err
	}

	now := s.clock().UTC()
	oldStored := domain.RoundSecondsToMinute(entry.Seconds(now))

	endUTC := end.UTC()
	entry.StartedAt = start.UTC()
	entry.EndedAt = &endUTC
	if err := entry.Validate(); err != nil {
		return err
	}
	newStored := domain.RoundSecondsToMinute(entry.Seconds(now))

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txEntries := repository.NewSQLiteEntryRepo(tx)

		if err := txEntries.Update(ctx, entry); err != nil {
			return err
		}
		t.DirectSeconds += newStored - oldStored
		if t.DirectSeconds < 0 {
			t.DirectSeconds = 0
		}
		t.UpdatedAt = now
		return txTasks.Update(ctx, t)
	})
	if err != nil {
		return fmt.Errorf("editing entry %s: %w", entryID, err)
	}
	s.invalidateLineage(ctx, t)
	return nil
}

func (s *timerService) DeleteEntry(ctx context.Context, entryID string) error {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	t, err := s.tasks.GetByID(ctx, entry.TaskID)
	if err != nil {
		return err
	}

	now := s.clock().UTC()
	var stored int64
	if !entry.Running() {
		stored = domain.RoundSecondsToMinute(entry.Seconds(now))
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txEntries := repository.NewSQLiteEntryRepo(tx)

		if err := txEntries.Delete(ctx, entry.ID); err != nil {
			return err
		}
		t.DirectSeconds -= stored
		if t.DirectSeconds < 0 {
			t.DirectSeconds = 0
		}
		t.UpdatedAt = now
		return txTasks.Update(ctx, t)
	})
	if err != nil {
		return fmt.Errorf("deleting entry %s: %w", entryID, err)
	}
	s.invalidateLineage(ctx, t)
	return nil
}

func (s *timerService) snapshot(ctx context.Context, projectID string) (stats.Snapshot, error) {
	tasks, err := s.tasks.Snapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return stats.Snapshot(tasks), nil
}

func (s *timerService) invalidateLineage(ctx context.Context, t *domain.Task) {
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
