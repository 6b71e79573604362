package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mindcarehq/mindcare/internal/wellness/entity"
)

const sessionColumns = `id, user_id, title, session_type, start_time, counsellor_name, notes, is_confirmed, created_at, updated_at`

func scanSession(row pgx.Row) (*entity.Session, error) {
	var se entity.Session
	err := row.Scan(&se.ID, &se.UserID, &se.Title, &se.SessionType, &se.StartTime, &se.CounsellorName,
		&se.Notes, &se.IsConfirmed, &se.CreatedAt, &se.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &se, nil
}

// ListSessions orders by start time. A non-nil from hides sessions starting
// before it.
func (s *DB) ListSessions(ctx context.Context, userID int64, from *time.Time) (_ []entity.Session, err error) {
	ctx, span := s.startSpan(ctx, "ListSessions")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM wellness_sessions
		WHERE user_id = $1 AND ($2::timestamptz IS NULL OR start_time >= $2)
		ORDER BY start_time, id`, userID, from)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	out := make([]entity.Session, 0)
	for rows.Next() {
		se, err := scanSession(rows)
		if err != nil {
			return nil, s.mapError(err)
		}
		out = append(out, *se)
	}

	return out, s.mapError(rows.Err())
}

func (s *DB) CreateSession(ctx context.Context, se entity.Session) (err error) {
	ctx, span := s.startSpan(ctx, "CreateSession")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO wellness_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		se.ID, se.UserID, se.Title, se.SessionType, se.StartTime, se.CounsellorName,
		se.Notes, se.IsConfirmed, se.CreatedAt, se.UpdatedAt,
	)
	return s.mapError(err)
}

func (s *DB) GetSession(ctx context.Context, userID, id int64) (_ *entity.Session, err error) {
	ctx, span := s.startSpan(ctx, "GetSession")
	defer func() { s.endSpan(span, err) }()

	se, err := scanSession(s.conn.QueryRow(ctx, `SELECT `+sessionColumns+` FROM wellness_sessions WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, s.mapError(err)
	}
	return se, nil
}

func (s *DB) UpdateSession(ctx context.Context, se entity.Session) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateSession")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE wellness_sessions
		SET title = $3, session_type = $4, start_time = $5, counsellor_name = $6, notes = $7,
			is_confirmed = $8, updated_at = $9
		WHERE id = $1 AND user_id = $2`,
		se.ID, se.UserID, se.Title, se.SessionType, se.StartTime, se.CounsellorName,
		se.Notes, se.IsConfirmed, se.UpdatedAt,
	)
	if err != nil {
		return s.mapError(err)
	}
	return rowsOrNotFound(tag)
}

func (s *DB) DeleteSession(ctx context.Context, userID, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteSession")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `DELETE FROM wellness_sessions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return s.mapError(err)
	}
	return rowsOrNotFound(tag)
}
