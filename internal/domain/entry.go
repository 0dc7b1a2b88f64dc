package domain

import "time"

// TimeEntry is an interval of tracked work on a task. An entry with a nil
// EndedAt is a running timer; a task holds at most one open entry at a time.
type TimeEntry struct {
	ID             string
	TaskID         string
	StartedAt      time.Time
	EndedAt        *time.Time
	PersonnelCount int
	CreatedAt      time.Time
}

// Running reports whether the entry is an open timer.
func (e *TimeEntry) Running() bool {
	return e.EndedAt == nil
}

// Seconds returns the entry's duration in whole seconds. Open entries are
// measured against now. Negative durations (clock skew, an end edited to
// before the start) are clamped to zero.
func (e *TimeEntry) Seconds(now time.Time) int64 {
	end := now
	if e.EndedAt != nil {
		end = *e.EndedAt
	}
	secs := int64(end.Sub(e.StartedAt) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

// PersonSeconds returns duration multiplied by personnel count.
func (e *TimeEntry) PersonSeconds(now time.Time) int64 {
	return e.Seconds(now) * int64(e.Personnel())
}

// Personnel returns the entry's personnel count, treating anything below
// one as a single person. The data-entry boundary already rejects counts
// below one; this keeps aggregation total even for malformed rows.
func (e *TimeEntry) Personnel() int {
	if e.PersonnelCount < 1 {
		return 1
	}
	return e.PersonnelCount
}

// Validate checks that a closed entry ends after it starts.
func (e *TimeEntry) Validate() error {
	if e.EndedAt != nil && !e.EndedAt.After(e.StartedAt) {
		return ErrInvalidInterval
	}
	return nil
}
