package stats

import "github.com/alexanderramin/tempo/internal/domain"

// Snapshot is a flat, read-only view of all task nodes the aggregation
// functions operate on. Children and dependencies are resolved by scanning
// the snapshot rather than through stored object references, so the
// functions stay correct when the underlying graph was mutated between
// snapshot loads.
type Snapshot []*domain.Task

// ByID returns the task with the given ID, or nil.
func (s Snapshot) ByID(id string) *domain.Task {
	for _, t := range s {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// ChildrenOf returns all tasks whose ParentID references the given task.
func (s Snapshot) ChildrenOf(id string) []*domain.Task {
	var children []*domain.Task
	for _, t := range s {
		if t.ParentID != nil && *t.ParentID == id {
			children = append(children, t)
		}
	}
	return children
}

// Roots returns all top-level tasks in the snapshot.
func (s Snapshot) Roots() []*domain.Task {
	var roots []*domain.Task
	for _, t := range s {
		if t.ParentID == nil {
			roots = append(roots, t)
		}
	}
	return roots
}
