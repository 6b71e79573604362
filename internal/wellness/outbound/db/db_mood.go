package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/mindcarehq/mindcare/internal/wellness/entity"
)

func (s *DB) GetTimezone(ctx context.Context, userID int64) (_ string, err error) {
	ctx, span := s.startSpan(ctx, "GetTimezone")
	defer func() { s.endSpan(span, err) }()

	var tz string
	err = s.conn.QueryRow(ctx, `SELECT timezone FROM identity_profiles WHERE user_id = $1`, userID).Scan(&tz)
	return tz, s.mapError(err)
}

func (s *DB) GetMoodState(ctx context.Context, userID int64) (_ *entity.MoodState, err error) {
	ctx, span := s.startSpan(ctx, "GetMoodState")
	defer func() { s.endSpan(span, err) }()

	m := entity.MoodState{UserID: userID}
	err = s.conn.QueryRow(ctx, `
		SELECT timezone, last_mood, last_mood_updated, mood_updates_count, mood_updates_date
		FROM identity_profiles WHERE user_id = $1`, userID,
	).Scan(&m.Timezone, &m.LastMood, &m.LastMoodUpdated, &m.MoodUpdatesCount, &m.MoodUpdatesDate)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &m, nil
}

// SaveMood writes the profile summary and appends the log row atomically.
// The daily counter is incremented in place and the stored value returned.
func (s *DB) SaveMood(ctx context.Context, state entity.MoodState, log entity.MoodLog) (_ int, err error) {
	ctx, span := s.startSpan(ctx, "SaveMood")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer s.rollback(ctx, tx)

	var count int
	err = tx.QueryRow(ctx, `
		UPDATE identity_profiles
		SET last_mood = $2, last_mood_updated = $3, updated_at = $3,
			mood_updates_count = CASE WHEN mood_updates_date = $4 THEN mood_updates_count + 1 ELSE 1 END,
			mood_updates_date = $4
		WHERE user_id = $1
		RETURNING mood_updates_count`,
		state.UserID, state.LastMood, state.LastMoodUpdated, state.MoodUpdatesDate,
	).Scan(&count)
	if err != nil {
		return 0, s.mapError(err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO wellness_mood_logs (id, user_id, value, local_date, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		log.ID, log.UserID, log.Value, log.LocalDate, log.CreatedAt,
	); err != nil {
		return 0, s.mapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, s.mapError(err)
	}

	return count, nil
}
