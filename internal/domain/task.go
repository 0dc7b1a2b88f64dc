package domain

import "time"

// Task is a unit of work. Top-level tasks belong to a project and may hold
// one level of subtasks; subtasks reference their parent through ParentID
// and must not have children of their own. Children are resolved by
// parent-ID lookup over a snapshot, never through a stored child list, so
// aggregation stays correct when the graph is mutated between reads.
type Task struct {
	ID          string
	ProjectID   string
	ParentID    *string
	Title       string
	Notes       string
	IsCompleted bool

	// DirectSeconds accumulates closed-entry time at minute granularity.
	// Elapsed time of an open entry is never persisted incrementally; it
	// is added at read time from the caller's now.
	DirectSeconds int64

	// TimeEntries are owned by the task. At most one may be open.
	TimeEntries []*TimeEntry

	// EstimatedSeconds is a manual estimate. For a parent task,
	// HasCustomEstimate marks it as an override of the children auto-sum.
	EstimatedSeconds  *int64
	HasCustomEstimate bool

	// ExpectedPersonnelCount seeds the personnel count of new timer
	// entries; nil means one person.
	ExpectedPersonnelCount *int

	// DependsOn holds IDs of tasks that must complete before this one is
	// ready. Non-owning; resolved against the snapshot.
	DependsOn []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OpenEntry returns the task's running time entry, or nil.
func (t *Task) OpenEntry() *TimeEntry {
	for _, e := range t.TimeEntries {
		if e.Running() {
			return e
		}
	}
	return nil
}

// HasActiveTimer reports whether the task has an open time entry.
func (t *Task) HasActiveTimer() bool {
	return t.OpenEntry() != nil
}

// IsSubtask reports whether the task sits below a top-level task.
func (t *Task) IsSubtask() bool {
	return t.ParentID != nil
}

// DependsOnTask reports whether id is a direct dependency.
func (t *Task) DependsOnTask(id string) bool {
	for _, dep := range t.DependsOn {
		if dep == id {
			return true
		}
	}
	return false
}

// DefaultPersonnel returns the personnel count new entries start with.
func (t *Task) DefaultPersonnel() int {
	n := IntFromPtrWithDefault(1, t.ExpectedPersonnelCount)
	if n < 1 {
		return 1
	}
	return n
}

// RoundSecondsToMinute rounds a duration in seconds to the nearest whole
// minute, expressed in seconds. Midpoints round up: 89s rounds to one
// minute, 90s to two. This is the precision boundary between the live
// display (raw seconds) and persisted totals (minute-granular).
func RoundSecondsToMinute(secs int64) int64 {
	if secs < 0 {
		return 0
	}
	return (secs + 30) / 60 * 60
}
