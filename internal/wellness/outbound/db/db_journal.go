package db

import (
	"context"

	"github.com/mindcarehq/mindcare/internal/wellness/entity"
)

func (s *DB) ListJournal(ctx context.Context, userID int64) (_ []entity.JournalRecord, err error) {
	ctx, span := s.startSpan(ctx, "ListJournal")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT id, user_id, title, note, mood, entry_type, created_at
		FROM wellness_journal_entries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	out := make([]entity.JournalRecord, 0)
	for rows.Next() {
		var r entity.JournalRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.Title, &r.SealedNote, &r.Mood, &r.EntryType, &r.CreatedAt); err != nil {
			return nil, s.mapError(err)
		}
		out = append(out, r)
	}

	return out, s.mapError(rows.Err())
}

func (s *DB) CreateJournal(ctx context.Context, r entity.JournalRecord) (err error) {
	ctx, span := s.startSpan(ctx, "CreateJournal")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO wellness_journal_entries (id, user_id, title, note, mood, entry_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.UserID, r.Title, r.SealedNote, r.Mood, r.EntryType, r.CreatedAt,
	)
	return s.mapError(err)
}

func (s *DB) DeleteJournal(ctx context.Context, userID, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteJournal")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `DELETE FROM wellness_journal_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return s.mapError(err)
	}
	return rowsOrNotFound(tag)
}
