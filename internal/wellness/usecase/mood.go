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

type UpdateMoodInput struct {
	Value    int    `json:"value" validate:"required,min=1,max=5"`
	Timezone string `json:"timezone" validate:"max=64"`
}

// UpdateMood records a mood check-in and returns the updated summary.
func (s *Usecase) UpdateMood(ctx context.Context, in UpdateMoodInput) (*entity.MoodState, error) {
	ctx, span := s.startSpan(ctx, "UpdateMood")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	userID, err := authUserID(ctx)
	if err != nil {
		return nil, err
	}

	var loc *time.Location
	if strings.TrimSpace(in.Timezone) != "" {
		l, ok := location(in.Timezone)
		if !ok {
			return nil, goerror.NewInvalidInput(nil, "timezone", "timezone must be a valid IANA time zone")
		}
		loc = l
	}

	state, err := s.repoDB.GetMoodState(ctx, userID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "profile not found for mood update", "user_id", userID)
		return nil, errAuthRequired
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get mood state", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if loc == nil {
		if l, ok := location(state.Timezone); ok {
			loc = l
		} else {
			loc = time.UTC
		}
	}

	now := s.clock.Now()
	next := state.Apply(in.Value, now, loc)

	log := entity.MoodLog{
		ID:        s.uid.Generate(),
		UserID:    userID,
		Value:     in.Value,
		LocalDate: *next.MoodUpdatesDate,
		CreatedAt: now,
	}

	count, err := s.repoDB.SaveMood(ctx, next, log)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "profile not found for mood save", "user_id", userID)
		return nil, errAuthRequired
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo save mood", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}
	next.MoodUpdatesCount = count

	return &next, nil
}
