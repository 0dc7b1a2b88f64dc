package domain

// TaskStatus is the derived lifecycle state of a task. It is recomputed on
// every read from the completion flag, open timers, and dependencies, and
// is never stored.
type TaskStatus string

const (
	TaskBlocked    TaskStatus = "blocked"
	TaskReady      TaskStatus = "ready"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)
