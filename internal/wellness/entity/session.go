package entity

import "time"

// FutureGrace is how far in the past a session may start and still be
// accepted.
const FutureGrace = time.Minute

type Session struct {
	ID             int64
	UserID         int64
	Title          string
	SessionType    string
	StartTime      time.Time
	CounsellorName string
	Notes          string
	IsConfirmed    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StartsInFuture reports whether start is acceptable at now.
func StartsInFuture(start, now time.Time) bool {
	return !start.Before(now.Add(-FutureGrace))
}

type SessionPatch struct {
	Title          *string
	SessionType    *string
	StartTime      *time.Time
	CounsellorName *string
	Notes          *string
	IsConfirmed    *bool
}

func (p SessionPatch) Apply(s *Session) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.SessionType != nil {
		s.SessionType = *p.SessionType
	}
	if p.StartTime != nil {
		s.StartTime = *p.StartTime
	}
	if p.CounsellorName != nil {
		s.CounsellorName = *p.CounsellorName
	}
	if p.Notes != nil {
		s.Notes = *p.Notes
	}
	if p.IsConfirmed != nil {
		s.IsConfirmed = *p.IsConfirmed
	}
}
