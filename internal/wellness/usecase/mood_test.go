package usecase

import (
	"testing"
	"time"

	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateMood_DailyCounter(t *testing.T) {
	s := newSuite(t)
	ctx := as(amy)

	out, err := s.uc.UpdateMood(ctx, UpdateMoodInput{Value: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, out.MoodUpdatesCount)
	assert.Equal(t, t0, *out.LastMoodUpdated)

	s.clock.Advance(time.Hour)
	out, err = s.uc.UpdateMood(ctx, UpdateMoodInput{Value: 4})
	require.NoError(t, err)
	assert.Equal(t, 2, out.MoodUpdatesCount)
	assert.Equal(t, 4, *out.LastMood)

	s.clock.Advance(24 * time.Hour)
	out, err = s.uc.UpdateMood(ctx, UpdateMoodInput{Value: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, out.MoodUpdatesCount)

	require.Len(t, s.db.moodLogs, 3)
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), s.db.moodLogs[2].LocalDate)
}

func TestUpdateMood_Timezone(t *testing.T) {
	s := newSuite(t)
	// 20:00 UTC is 03:00 the next day in Jakarta.
	s.clock.Set(time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC))

	out, err := s.uc.UpdateMood(as(amy), UpdateMoodInput{Value: 3, Timezone: "Asia/Jakarta"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), *out.MoodUpdatesDate)

	// bob's profile timezone is Jakarta.
	out, err = s.uc.UpdateMood(as(bob), UpdateMoodInput{Value: 3})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), *out.MoodUpdatesDate)

	out, err = s.uc.UpdateMood(as(amy), UpdateMoodInput{Value: 3, Timezone: "UTC"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.MoodUpdatesCount, "a different local date restarts the count")
}

func TestUpdateMood_Validation(t *testing.T) {
	s := newSuite(t)

	for _, v := range []int{0, 6, -1} {
		_, err := s.uc.UpdateMood(as(amy), UpdateMoodInput{Value: v})
		assertCode(t, err, goerror.CodeInvalidInput)
	}

	_, err := s.uc.UpdateMood(as(amy), UpdateMoodInput{Value: 3, Timezone: "Mars/Olympus"})
	assertField(t, err, "timezone", "timezone must be a valid IANA time zone")
	assert.Empty(t, s.db.moodLogs)
}

func TestUpdateMood_UnknownProfile(t *testing.T) {
	s := newSuite(t)

	_, err := s.uc.UpdateMood(as(404), UpdateMoodInput{Value: 3})
	assertCode(t, err, goerror.CodeUnauthorized)

	s.db.failWith = assert.AnError
	_, err = s.uc.UpdateMood(as(amy), UpdateMoodInput{Value: 3})
	assertCode(t, err, goerror.CodeInternal)
}
