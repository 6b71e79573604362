package entity

import "time"

// MoodState is the mood summary kept on the profile.
type MoodState struct {
	UserID           int64
	Timezone         string
	LastMood         *int
	LastMoodUpdated  *time.Time
	MoodUpdatesCount int
	// MoodUpdatesDate is a calendar date, stored at UTC midnight.
	MoodUpdatesDate *time.Time
}

// Apply records value at now. The daily counter restarts when the local
// date in loc differs from the last recorded date.
func (m MoodState) Apply(value int, now time.Time, loc *time.Location) MoodState {
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

	next := m
	next.LastMood = &value
	next.LastMoodUpdated = &now
	if m.MoodUpdatesDate != nil && m.MoodUpdatesDate.Equal(today) {
		next.MoodUpdatesCount = m.MoodUpdatesCount + 1
	} else {
		next.MoodUpdatesCount = 1
	}
	next.MoodUpdatesDate = &today

	return next
}

type MoodLog struct {
	ID        int64
	UserID    int64
	Value     int
	LocalDate time.Time
	CreatedAt time.Time
}
