package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestRoundSecondsToMinute(t *testing.T) {
	cases := []struct {
		secs int64
		want int64
	}{
		{0, 0},
		{29, 0},
		{30, 60}, // midpoint rounds up
		{89, 60},
		{90, 120},
		{125, 120},
		{3600, 3600},
		{-5, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RoundSecondsToMinute(tc.secs), "secs=%d", tc.secs)
	}
}

func TestEntrySeconds_Closed(t *testing.T) {
	end := testNow.Add(90 * time.Second)
	e := &TimeEntry{StartedAt: testNow, EndedAt: &end}
	assert.Equal(t, int64(90), e.Seconds(testNow.Add(time.Hour)), "closed entries ignore now")
}

func TestEntrySeconds_Open(t *testing.T) {
	e := &TimeEntry{StartedAt: testNow}
	assert.Equal(t, int64(125), e.Seconds(testNow.Add(125*time.Second)))
}

func TestEntrySeconds_ClampsNegative(t *testing.T) {
	// End edited to before the start must contribute zero, not a
	// negative duration.
	end := testNow.Add(-time.Minute)
	e := &TimeEntry{StartedAt: testNow, EndedAt: &end}
	assert.Equal(t, int64(0), e.Seconds(testNow))

	// Open entry with now before the start (clock skew) also clamps.
	open := &TimeEntry{StartedAt: testNow}
	assert.Equal(t, int64(0), open.Seconds(testNow.Add(-time.Second)))
}

func TestEntryPersonSeconds(t *testing.T) {
	end := testNow.Add(time.Hour)
	e := &TimeEntry{StartedAt: testNow, EndedAt: &end, PersonnelCount: 2}
	assert.Equal(t, int64(7200), e.PersonSeconds(testNow))
}

func TestEntryValidate(t *testing.T) {
	end := testNow.Add(time.Minute)
	require.NoError(t, (&TimeEntry{StartedAt: testNow, EndedAt: &end}).Validate())

	bad := testNow
	err := (&TimeEntry{StartedAt: testNow, EndedAt: &bad}).Validate()
	assert.ErrorIs(t, err, ErrInvalidInterval, "end == start is invalid")

	require.NoError(t, (&TimeEntry{StartedAt: testNow}).Validate(), "open entries are valid")
}

func TestTaskOpenEntry(t *testing.T) {
	end := testNow.Add(time.Hour)
	closed := &TimeEntry{ID: "closed", StartedAt: testNow, EndedAt: &end}
	open := &TimeEntry{ID: "open", StartedAt: testNow}

	task := &Task{TimeEntries: []*TimeEntry{closed, open}}
	require.NotNil(t, task.OpenEntry())
	assert.Equal(t, "open", task.OpenEntry().ID)
	assert.True(t, task.HasActiveTimer())

	assert.Nil(t, (&Task{TimeEntries: []*TimeEntry{closed}}).OpenEntry())
}

func TestTaskDefaultPersonnel(t *testing.T) {
	assert.Equal(t, 1, (&Task{}).DefaultPersonnel())

	three := 3
	assert.Equal(t, 3, (&Task{ExpectedPersonnelCount: &three}).DefaultPersonnel())

	zero := 0
	assert.Equal(t, 1, (&Task{ExpectedPersonnelCount: &zero}).DefaultPersonnel())
}

func TestTaskDependsOnTask(t *testing.T) {
	task := &Task{DependsOn: []string{"a", "b"}}
	assert.True(t, task.DependsOnTask("a"))
	assert.False(t, task.DependsOnTask("c"))
}
