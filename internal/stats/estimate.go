package stats

import (
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

// EffectiveEstimate resolves the estimate that applies to a task. A task
// without children uses its own EstimatedSeconds. A task with children uses
// its manual estimate when HasCustomEstimate is set, and otherwise the sum
// of the children's effective estimates; the result is nil when neither
// the task nor any child carries an estimate.
func EffectiveEstimate(task *domain.Task, all Snapshot) *int64 {
	children := all.ChildrenOf(task.ID)
	if len(children) == 0 || task.HasCustomEstimate {
		return task.EstimatedSeconds
	}
	var sum int64
	found := false
	for _, child := range children {
		if est := EffectiveEstimate(child, all); est != nil {
			sum += *est
			found = true
		}
	}
	if !found {
		return nil
	}
	return &sum
}

// ChildEstimateSum returns the summed effective estimates of the task's
// children. A custom parent estimate below this sum is suspicious; the
// policy layer surfaces that as a warning, not a hard failure.
func ChildEstimateSum(task *domain.Task, all Snapshot) int64 {
	var sum int64
	for _, child := range all.ChildrenOf(task.ID) {
		if est := EffectiveEstimate(child, all); est != nil {
			sum += *est
		}
	}
	return sum
}

// EstimateVariance compares tracked time against the effective estimate.
// RemainingSeconds is clamped at zero once the estimate is exceeded;
// OverSeconds holds the overrun. Zero-valued when no estimate applies.
type EstimateVariance struct {
	EstimatedSeconds int64
	TrackedSeconds   int64
	RemainingSeconds int64
	OverSeconds      int64
	ProgressPct      float64
}

// Variance computes estimate-vs-actual progress for the task, or nil when
// no effective estimate applies.
func Variance(task *domain.Task, all Snapshot, now time.Time) *EstimateVariance {
	est := EffectiveEstimate(task, all)
	if est == nil || *est <= 0 {
		return nil
	}
	tracked := TotalSecondsNow(task, all, now)
	v := &EstimateVariance{
		EstimatedSeconds: *est,
		TrackedSeconds:   tracked,
		ProgressPct:      float64(tracked) / float64(*est) * 100,
	}
	if tracked > *est {
		v.OverSeconds = tracked - *est
	} else {
		v.RemainingSeconds = *est - tracked
	}
	return v
}
