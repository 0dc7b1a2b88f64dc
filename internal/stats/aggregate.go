package stats

import (
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

// AggregatedStats is the bundle of numbers a single aggregation pass
// produces for one task.
type AggregatedStats struct {
	TaskID            string
	TotalSeconds      int64
	DirectSeconds     int64
	TotalPersonHours  float64
	DirectPersonHours float64
	HasMultiPerson    bool
}

// DirectSecondsNow returns the task's accumulated closed-entry seconds
// plus, if a timer is running, the elapsed time of the open entry measured
// against now. The result is never negative.
func DirectSecondsNow(task *domain.Task, now time.Time) int64 {
	secs := task.DirectSeconds
	if open := task.OpenEntry(); open != nil {
		secs += open.Seconds(now)
	}
	if secs < 0 {
		return 0
	}
	return secs
}

// TotalSecondsNow returns DirectSecondsNow for the task plus the recursive
// total of every child in the snapshot. All recursive calls share the
// caller's now, so sibling sums cannot drift within one invocation. The
// recursion is generic over whatever children exist; it does not assume
// the two-level nesting limit.
func TotalSecondsNow(task *domain.Task, all Snapshot, now time.Time) int64 {
	total := DirectSecondsNow(task, now)
	for _, child := range all.ChildrenOf(task.ID) {
		total += TotalSecondsNow(child, all, now)
	}
	return total
}

// DirectPersonSeconds returns the task's own person-seconds: each entry's
// duration multiplied by its personnel count. Closed entries use their
// stored interval; an open entry is measured against now.
func DirectPersonSeconds(task *domain.Task, now time.Time) int64 {
	var total int64
	var entrySecs int64
	for _, e := range task.TimeEntries {
		total += e.PersonSeconds(now)
		if !e.Running() {
			entrySecs += e.Seconds(now)
		}
	}
	// DirectSeconds may hold time with no surviving entry rows (deleted
	// entries, imported totals). Count that remainder as single-person.
	if rest := task.DirectSeconds - entrySecs; rest > 0 {
		total += rest
	}
	return total
}

// TotalPersonSeconds rolls DirectPersonSeconds up over the task's children,
// using the same single-now recursion as TotalSecondsNow.
func TotalPersonSeconds(task *domain.Task, all Snapshot, now time.Time) int64 {
	total := DirectPersonSeconds(task, now)
	for _, child := range all.ChildrenOf(task.ID) {
		total += TotalPersonSeconds(child, all, now)
	}
	return total
}

// PersonnelCounts returns the set of personnel-count values used by any
// entry of the task or its descendants.
func PersonnelCounts(task *domain.Task, all Snapshot) map[int]bool {
	counts := make(map[int]bool)
	collectPersonnelCounts(task, all, counts)
	return counts
}

func collectPersonnelCounts(task *domain.Task, all Snapshot, counts map[int]bool) {
	for _, e := range task.TimeEntries {
		counts[e.Personnel()] = true
	}
	for _, child := range all.ChildrenOf(task.ID) {
		collectPersonnelCounts(child, all, counts)
	}
}

// HasMultiPersonEntries reports whether any entry of the task or its
// descendants was tracked with more than one person.
func HasMultiPersonEntries(task *domain.Task, all Snapshot) bool {
	for count := range PersonnelCounts(task, all) {
		if count > 1 {
			return true
		}
	}
	return false
}

// ComputeStats runs one full aggregation pass for the task. All time math
// stays in integer seconds; person-hours are converted only here, at the
// boundary.
func ComputeStats(task *domain.Task, all Snapshot, now time.Time) AggregatedStats {
	return AggregatedStats{
		TaskID:            task.ID,
		TotalSeconds:      TotalSecondsNow(task, all, now),
		DirectSeconds:     DirectSecondsNow(task, now),
		TotalPersonHours:  float64(TotalPersonSeconds(task, all, now)) / 3600.0,
		DirectPersonHours: float64(DirectPersonSeconds(task, now)) / 3600.0,
		HasMultiPerson:    HasMultiPersonEntries(task, all),
	}
}
