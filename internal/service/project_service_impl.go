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

type projectService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	cache    *stats.Cache
}

func NewProjectService(projects repository.ProjectRepo, uow db.UnitOfWork, cache *stats.Cache) ProjectService {
	return &projectService{projects: projects, uow: uow, cache: cache}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = domain.ProjectActive
	}
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	return s.projects.List(ctx, includeArchived)
}

func (s *projectService) Archive(ctx context.Context, id string) error {
	return s.projects.Archive(ctx, id)
}

// Delete removes the project and everything under it: entries and
// dependency edges first, then tasks, then the project row.
func (s *projectService) Delete(ctx context.Context, id string) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txEntries := repository.NewSQLiteEntryRepo(tx)
		txDeps := repository.NewSQLiteDependencyRepo(tx)
		txProjects := repository.NewSQLiteProjectRepo(tx)

		tasks, err := txTasks.ListByProject(ctx, id)
		if err != nil {
			return err
		}
		for _, t := range tasks {
			if err := txEntries.DeleteByTask(ctx, t.ID); err != nil {
				return err
			}
			if err := txDeps.DeleteAllFor(ctx, t.ID); err != nil {
				return err
			}
		}
		// Subtasks reference their parent; delete children before parents.
		for _, t := range tasks {
			if t.IsSubtask() {
				if err := txTasks.Delete(ctx, t.ID); err != nil {
					return err
				}
			}
		}
		for _, t := range tasks {
			if !t.IsSubtask() {
				if err := txTasks.Delete(ctx, t.ID); err != nil {
					return err
				}
			}
		}
		return txProjects.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}
	s.cache.InvalidateAll()
	return nil
}
