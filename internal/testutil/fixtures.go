package testutil

import (
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/google/uuid"
)

// Task options
type TaskOption func(*domain.Task)

func WithParent(parentID string) TaskOption {
	return func(t *domain.Task) {
		t.ParentID = &parentID
	}
}

func WithCompleted() TaskOption {
	return func(t *domain.Task) {
		t.IsCompleted = true
	}
}

func WithDirectSeconds(secs int64) TaskOption {
	return func(t *domain.Task) {
		t.DirectSeconds = secs
	}
}

func WithEstimate(secs int64) TaskOption {
	return func(t *domain.Task) {
		t.EstimatedSeconds = &secs
	}
}

func WithCustomEstimate(secs int64) TaskOption {
	return func(t *domain.Task) {
		t.EstimatedSeconds = &secs
		t.HasCustomEstimate = true
	}
}

func WithExpectedPersonnel(n int) TaskOption {
	return func(t *domain.Task) {
		t.ExpectedPersonnelCount = &n
	}
}

func WithDependsOn(ids ...string) TaskOption {
	return func(t *domain.Task) {
		t.DependsOn = append(t.DependsOn, ids...)
	}
}

func WithEntries(entries ...*domain.TimeEntry) TaskOption {
	return func(t *domain.Task) {
		for _, e := range entries {
			e.TaskID = t.ID
			t.TimeEntries = append(t.TimeEntries, e)
		}
	}
}

func NewTestProject(name string) *domain.Project {
	now := time.Now().UTC()
	return &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewTestTask(projectID, title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ClosedEntry builds a closed entry spanning [start, start+dur).
func ClosedEntry(start time.Time, dur time.Duration, personnel int) *domain.TimeEntry {
	end := start.Add(dur)
	return &domain.TimeEntry{
		ID:             uuid.New().String(),
		StartedAt:      start,
		EndedAt:        &end,
		PersonnelCount: personnel,
		CreatedAt:      start,
	}
}

// OpenEntry builds a running entry started at the given time.
func OpenEntry(start time.Time, personnel int) *domain.TimeEntry {
	return &domain.TimeEntry{
		ID:             uuid.New().String(),
		StartedAt:      start,
		PersonnelCount: personnel,
		CreatedAt:      start,
	}
}
