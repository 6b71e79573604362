package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoodState_Apply(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 2026-01-01 20:00 UTC is already 2026-01-02 in Jakarta.
	now := time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)

	first := MoodState{}.Apply(3, now, time.UTC)
	assert.Equal(t, 1, first.MoodUpdatesCount)
	assert.Equal(t, 3, *first.LastMood)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *first.MoodUpdatesDate)

	second := first.Apply(4, now.Add(time.Hour), time.UTC)
	assert.Equal(t, 2, second.MoodUpdatesCount)
	assert.Equal(t, 4, *second.LastMood)

	other := second.Apply(5, now.Add(2*time.Hour), jakarta)
	assert.Equal(t, 1, other.MoodUpdatesCount, "new local day resets the counter")
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), *other.MoodUpdatesDate)

	assert.Equal(t, 3, *first.LastMood, "apply does not mutate the receiver")
}

func TestStartsInFuture(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	assert.True(t, StartsInFuture(now.Add(time.Hour), now))
	assert.True(t, StartsInFuture(now.Add(-30*time.Second), now))
	assert.True(t, StartsInFuture(now.Add(-time.Minute), now))
	assert.False(t, StartsInFuture(now.Add(-time.Minute-time.Second), now))
}

func TestPatches(t *testing.T) {
	title := "Walk"
	done := true
	task := Task{Title: "Run", Category: "body"}
	TaskPatch{Title: &title, IsCompleted: &done}.Apply(&task)
	assert.Equal(t, Task{Title: "Walk", Category: "body", IsCompleted: true}, task)

	notes := "bring journal"
	s := Session{Title: "Check-in"}
	SessionPatch{Notes: &notes}.Apply(&s)
	assert.Equal(t, "Check-in", s.Title)
	assert.Equal(t, "bring journal", s.Notes)
}

func TestService_Ensure(t *testing.T) {
	assert.Equal(t, ServiceCall, Service("call").Ensure())
	assert.Equal(t, ServiceUnknown, Service("video").Ensure())
}
