package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
	"github.com/mindcarehq/mindcare/internal/wellness/entity"
)

const quickSessionTitle = "Quick session"

var (
	errSessionNotFound = goerror.NewBusiness("session not found", goerror.CodeNotFound)
	errStartInPast     = goerror.NewInvalidInput(nil, "start_time", "Start time must be in the future.")
)

type ListSessionsInput struct {
	// Upcoming hides sessions that already started.
	Upcoming bool
}

func (s *Usecase) ListSessions(ctx context.Context, in ListSessionsInput) ([]entity.Session, error) {
	ctx, span := s.startSpan(ctx, "ListSessions")
	defer span.End()

	userID, err := authUserID(ctx)
	if err != nil {
		return nil, err
	}

	var from *time.Time
	if in.Upcoming {
		now := s.clock.Now()
		from = &now
	}

	sessions, err := s.repoDB.ListSessions(ctx, userID, from)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list sessions", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return sessions, nil
}

type CreateSessionInput struct {
	Title          string    `json:"title" validate:"required,max=160"`
	SessionType    string    `json:"session_type" validate:"omitempty,max=30"`
	StartTime      time.Time `json:"start_time" validate:"required"`
	CounsellorName string    `json:"counsellor_name" validate:"max=120"`
	Notes          string    `json:"notes" validate:"max=2000"`
	IsConfirmed    bool      `json:"is_confirmed"`
}

func (s *Usecase) CreateSession(ctx context.Context, in CreateSessionInput) (*entity.Session, error) {
	ctx, span := s.startSpan(ctx, "CreateSession")
	defer span.End()

	in.Title = strings.TrimSpace(in.Title)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	userID, err := authUserID(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !entity.StartsInFuture(in.StartTime, now) {
		return nil, errStartInPast
	}

	sessionType := strings.TrimSpace(in.SessionType)
	if sessionType == "" {
		sessionType = entity.SessionTypeCounselling
	}

	return s.createSession(ctx, entity.Session{
		ID:             s.uid.Generate(),
		UserID:         userID,
		Title:          in.Title,
		SessionType:    sessionType,
		StartTime:      in.StartTime,
		CounsellorName: strings.TrimSpace(in.CounsellorName),
		Notes:          in.Notes,
		IsConfirmed:    in.IsConfirmed,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

type QuickSessionInput struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Time  string `json:"time" validate:"required,datetime=15:04"`
	Title string `json:"title" validate:"max=160"`
	Notes string `json:"notes" validate:"max=2000"`
}

// QuickSession books a session from a local date and time in the caller's
// profile timezone.
func (s *Usecase) QuickSession(ctx context.Context, in QuickSessionInput) (*entity.Session, error) {
	ctx, span := s.startSpan(ctx, "QuickSession")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	userID, err := authUserID(ctx)
	if err != nil {
		return nil, err
	}

	tz, err := s.repoDB.GetTimezone(ctx, userID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, errAuthRequired
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get timezone", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}
	loc, ok := location(tz)
	if !ok {
		loc = time.UTC
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.Time, loc)
	if err != nil {
		return nil, goerror.NewInvalidInput(nil, "date", "date and time must form a valid moment")
	}

	now := s.clock.Now()
	if !entity.StartsInFuture(start, now) {
		return nil, errStartInPast
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = quickSessionTitle
	}

	return s.createSession(ctx, entity.Session{
		ID:          s.uid.Generate(),
		UserID:      userID,
		Title:       title,
		SessionType: entity.SessionTypeQuick,
		StartTime:   start,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *Usecase) createSession(ctx context.Context, sess entity.Session) (*entity.Session, error) {
	if err := s.repoDB.CreateSession(ctx, sess); err != nil {
		slog.ErrorContext(ctx, "failed to repo create session", "user_id", sess.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}
	return &sess, nil
}

type UpdateSessionInput struct {
	ID             int64      `json:"-" validate:"gt=0"`
	Title          *string    `json:"title" validate:"omitnil,min=1,max=160"`
	SessionType    *string    `json:"session_type" validate:"omitnil,min=1,max=30"`
	StartTime      *time.Time `json:"start_time"`
	CounsellorName *string    `json:"counsellor_name" validate:"omitempty,max=120"`
	Notes          *string    `json:"notes" validate:"omitempty,max=2000"`
	IsConfirmed    *bool      `json:"is_confirmed"`
}

func (s *Usecase) UpdateSession(ctx context.Context, in UpdateSessionInput) (*entity.Session, error) {
	ctx, span := s.startSpan(ctx, "UpdateSession")
	defer span.End()

	in.Title = trimPtr(in.Title)
	in.SessionType = trimPtr(in.SessionType)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	userID, err := authUserID(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if in.StartTime != nil && !entity.StartsInFuture(*in.StartTime, now) {
		return nil, errStartInPast
	}

	sess, err := s.repoDB.GetSession(ctx, userID, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, errSessionNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get session", "session_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	entity.SessionPatch{
		Title:          in.Title,
		SessionType:    in.SessionType,
		StartTime:      in.StartTime,
		CounsellorName: trimPtr(in.CounsellorName),
		Notes:          in.Notes,
		IsConfirmed:    in.IsConfirmed,
	}.Apply(sess)
	sess.UpdatedAt = now

	err = s.repoDB.UpdateSession(ctx, *sess)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, errSessionNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update session", "session_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return sess, nil
}

func (s *Usecase) DeleteSession(ctx context.Context, id int64) error {
	ctx, span := s.startSpan(ctx, "DeleteSession")
	defer span.End()

	userID, err := authUserID(ctx)
	if err != nil {
		return err
	}

	err = s.repoDB.DeleteSession(ctx, userID, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return errSessionNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete session", "session_id", id, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
