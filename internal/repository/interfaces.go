package repository

import (
	"context"

	"github.com/alexanderramin/tempo/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Task, error)
	// Snapshot returns every task of the project with its time entries and
	// dependency IDs attached: the flat collection the aggregation
	// functions walk. An empty projectID loads all projects.
	Snapshot(ctx context.Context, projectID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}

type EntryRepo interface {
	Create(ctx context.Context, e *domain.TimeEntry) error
	GetByID(ctx context.Context, id string) (*domain.TimeEntry, error)
	GetOpenByTask(ctx context.Context, taskID string) (*domain.TimeEntry, error)
	ListByTask(ctx context.Context, taskID string) ([]*domain.TimeEntry, error)
	Update(ctx context.Context, e *domain.TimeEntry) error
	Delete(ctx context.Context, id string) error
	DeleteByTask(ctx context.Context, taskID string) error
}

type DependencyRepo interface {
	Create(ctx context.Context, taskID, dependsOnID string) error
	Delete(ctx context.Context, taskID, dependsOnID string) error
	ListDependencies(ctx context.Context, taskID string) ([]string, error)
	ListDependents(ctx context.Context, taskID string) ([]string, error)
	DeleteAllFor(ctx context.Context, taskID string) error
}
