package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/mindcarehq/mindcare/internal/identity/entity"
	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
)

func (s *DB) GetProfile(ctx context.Context, userID int64) (_ *entity.Profile, err error) {
	ctx, span := s.startSpan(ctx, "GetProfile")
	defer func() { s.endSpan(span, err) }()

	var p entity.Profile
	err = s.conn.QueryRow(ctx, `
		SELECT p.user_id, u.username, u.email, p.full_name, p.nickname, p.phone, p.age, p.gender,
		       p.wallet_minutes, p.last_mood, p.last_mood_updated, p.mood_updates_count, p.mood_updates_date,
		       p.timezone, p.notifications_enabled, p.prefers_dark_mode, p.language, p.created_at
		FROM identity_profiles p
		JOIN identity_users u ON u.id = p.user_id
		WHERE p.user_id = $1`,
		userID,
	).Scan(
		&p.UserID, &p.Username, &p.Email, &p.FullName, &p.Nickname, &p.Phone, &p.Age, &p.Gender,
		&p.WalletMinutes, &p.LastMood, &p.LastMoodUpdated, &p.MoodUpdatesCount, &p.MoodUpdatesDate,
		&p.Timezone, &p.NotificationsEnabled, &p.PrefersDarkMode, &p.Language, &p.CreatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &p, nil
}

// UpdateProfile writes only the non-nil fields of patch.
func (s *DB) UpdateProfile(ctx context.Context, userID int64, patch entity.ProfilePatch) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateProfile")
	defer func() { s.endSpan(span, err) }()

	var (
		sets = []string{"updated_at = now()"}
		args = []any{userID}
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.FullName != nil {
		add("full_name", *patch.FullName)
	}
	if patch.Nickname != nil {
		add("nickname", *patch.Nickname)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Age != nil {
		add("age", *patch.Age)
	}
	if patch.Gender != nil {
		add("gender", *patch.Gender)
	}
	if patch.Timezone != nil {
		add("timezone", *patch.Timezone)
	}
	if patch.NotificationsEnabled != nil {
		add("notifications_enabled", *patch.NotificationsEnabled)
	}
	if patch.PrefersDarkMode != nil {
		add("prefers_dark_mode", *patch.PrefersDarkMode)
	}
	if patch.Language != nil {
		add("language", *patch.Language)
	}

	tag, err := s.conn.Exec(ctx,
		"UPDATE identity_profiles SET "+strings.Join(sets, ", ")+" WHERE user_id = $1",
		args...,
	)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}
	return nil
}
