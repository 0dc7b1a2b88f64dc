package stats

import "github.com/alexanderramin/tempo/internal/domain"

// Status derives a task's lifecycle state. Precedence: completed, then
// in-progress (open timer), then blocked (own incomplete dependency),
// then ready. Only the task's own DependsOn set participates; subtask
// dependencies are reported separately via BlockingSubtaskDependencies
// and never change the parent's state.
func Status(task *domain.Task, all Snapshot) domain.TaskStatus {
	switch {
	case task.IsCompleted:
		return domain.TaskCompleted
	case task.HasActiveTimer():
		return domain.TaskInProgress
	case len(BlockingDependencies(task, all)) > 0:
		return domain.TaskBlocked
	default:
		return domain.TaskReady
	}
}

// BlockingDependencies returns the subset of the task's direct
// dependencies that are not yet completed. A dependency ID with no
// matching task in the snapshot is ignored rather than treated as
// blocking; a dangling reference must not freeze the task forever.
func BlockingDependencies(task *domain.Task, all Snapshot) []*domain.Task {
	var blocking []*domain.Task
	for _, depID := range task.DependsOn {
		if dep := all.ByID(depID); dep != nil && !dep.IsCompleted {
			blocking = append(blocking, dep)
		}
	}
	return blocking
}

// BlockingSubtaskDependencies returns incomplete dependencies of the
// task's children, excluding the children themselves. This is a reporting
// convenience for parent-level views; it does not feed Status.
func BlockingSubtaskDependencies(task *domain.Task, all Snapshot) []*domain.Task {
	childIDs := make(map[string]bool)
	for _, child := range all.ChildrenOf(task.ID) {
		childIDs[child.ID] = true
	}

	seen := make(map[string]bool)
	var blocking []*domain.Task
	for _, child := range all.ChildrenOf(task.ID) {
		for _, dep := range BlockingDependencies(child, all) {
			if childIDs[dep.ID] || seen[dep.ID] {
				continue
			}
			seen[dep.ID] = true
			blocking = append(blocking, dep)
		}
	}
	return blocking
}

// IncompleteChildren returns the task's children that are not completed.
func IncompleteChildren(task *domain.Task, all Snapshot) []*domain.Task {
	var out []*domain.Task
	for _, child := range all.ChildrenOf(task.ID) {
		if !child.IsCompleted {
			out = append(out, child)
		}
	}
	return out
}

// CompletedChildren returns the task's children that are completed.
func CompletedChildren(task *domain.Task, all Snapshot) []*domain.Task {
	var out []*domain.Task
	for _, child := range all.ChildrenOf(task.ID) {
		if child.IsCompleted {
			out = append(out, child)
		}
	}
	return out
}
