package domain

import "errors"

// Policy errors. These are expected, recoverable outcomes of action
// preconditions; callers match them with errors.Is and render
// confirmations or alerts instead of failing.
var (
	// ErrTaskBlocked is returned when starting a timer on, or completing,
	// a task whose dependencies are incomplete.
	ErrTaskBlocked = errors.New("task is blocked by incomplete dependencies")

	// ErrTimerAlreadyRunning is returned when starting a timer on a task
	// that already has an open time entry.
	ErrTimerAlreadyRunning = errors.New("task already has a running timer")

	// ErrNoActiveTimer is returned when stopping a timer on a task with
	// no open time entry.
	ErrNoActiveTimer = errors.New("task has no running timer")

	// ErrInvalidInterval is returned when an edited or manual time entry
	// would end at or before its start.
	ErrInvalidInterval = errors.New("time entry must end after it starts")

	// ErrCircularDependency is returned when a dependency edit would make
	// a task depend, directly or transitively, on itself.
	ErrCircularDependency = errors.New("dependency would create a cycle")

	// ErrMaxDepth is returned when a mutation would nest tasks deeper
	// than one subtask level.
	ErrMaxDepth = errors.New("subtasks cannot have their own subtasks")
)
