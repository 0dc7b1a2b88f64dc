package service

import (
	"context"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/stats"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// ChildPolicy tells Complete/Uncomplete what to do with children whose
// completion state disagrees with the requested change. The default, Ask,
// applies nothing and reports the conflict so the caller can confirm;
// cascading is always an explicit choice.
type ChildPolicy string

const (
	ChildAsk     ChildPolicy = "ask"
	ChildCascade ChildPolicy = "cascade"
	ChildKeep    ChildPolicy = "keep"
)

type CompleteOptions struct {
	// Force completes a blocked task anyway.
	Force    bool
	Children ChildPolicy
}

type CompleteResult struct {
	// Applied is false when the change was withheld pending a child
	// decision; ConflictingChildren then holds how many children would
	// be affected by a cascade.
	Applied             bool
	ConflictingChildren int
	CascadedChildren    int
}

type TaskService interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	// SetEstimate sets a manual estimate. On a parent task this becomes a
	// custom override; a warning string is returned when the override is
	// below the children's summed estimates (soft validation).
	SetEstimate(ctx context.Context, id string, seconds int64) (warning string, err error)
	ClearEstimate(ctx context.Context, id string) error
	Complete(ctx context.Context, id string, opts CompleteOptions) (*CompleteResult, error)
	Uncomplete(ctx context.Context, id string, children ChildPolicy) (*CompleteResult, error)
	// Move re-parents a subtask (or promotes it with an empty parent ID).
	// The task inherits the new parent's project.
	Move(ctx context.Context, id string, newParentID string) error
	Delete(ctx context.Context, id string) error
}

// StopResult reports both sides of the stop-timer precision boundary:
// the raw elapsed seconds the live display was showing and the
// minute-rounded seconds folded into the task's stored total.
type StopResult struct {
	Entry          *domain.TimeEntry
	ElapsedSeconds int64
	StoredSeconds  int64
}

type TimerService interface {
	// Start opens a timer on the task. Fails with domain.ErrTaskBlocked
	// when the task has incomplete dependencies (unless force) and with
	// domain.ErrTimerAlreadyRunning when a timer is already open.
	Start(ctx context.Context, taskID string, force bool) (*domain.TimeEntry, error)
	// Stop closes the open timer, folding the rounded elapsed time into
	// the task's DirectSeconds. Fails with domain.ErrNoActiveTimer.
	Stop(ctx context.Context, taskID string) (*StopResult, error)
	// AddManualEntry records a closed interval directly.
	AddManualEntry(ctx context.Context, taskID string, start, end time.Time, personnel int) (*domain.TimeEntry, error)
	// EditEntry rewrites an entry's interval, re-validating it and
	// adjusting the task's stored total.
	EditEntry(ctx context.Context, entryID string, start, end time.Time) error
	DeleteEntry(ctx context.Context, entryID string) error
}

type DependencyService interface {
	// Add links task -> dependsOn, rejecting self-references and cycles
	// with domain.ErrCircularDependency.
	Add(ctx context.Context, taskID, dependsOnID string) error
	Remove(ctx context.Context, taskID, dependsOnID string) error
}

// TaskOverview bundles everything a task detail view renders in one read.
type TaskOverview struct {
	Task                  *domain.Task
	Stats                 stats.AggregatedStats
	Status                domain.TaskStatus
	BlockingDependencies  []*domain.Task
	BlockingFromSubtasks  []*domain.Task
	EffectiveEstimateSecs *int64
	Variance              *stats.EstimateVariance
}

type StatsService interface {
	// TaskStats computes aggregated numbers for one task through the
	// read cache.
	TaskStats(ctx context.Context, taskID string) (stats.AggregatedStats, error)
	Overview(ctx context.Context, taskID string) (*TaskOverview, error)
	// ProjectReport returns an overview per top-level task of the project.
	ProjectReport(ctx context.Context, projectID string) ([]*TaskOverview, error)
	// Snapshot exposes the flat task collection for callers that drive
	// their own rendering loop (the live timer view).
	Snapshot(ctx context.Context, projectID string) (stats.Snapshot, error)
}
