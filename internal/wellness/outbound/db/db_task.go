package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/mindcarehq/mindcare/internal/wellness/entity"
)

const taskColumns = `id, user_id, title, category, is_completed, sort_order, created_at, updated_at`

func scanTask(row pgx.Row) (*entity.Task, error) {
	var t entity.Task
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Category, &t.IsCompleted, &t.Order, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *DB) ListTasks(ctx context.Context, userID int64) (_ []entity.Task, err error) {
	ctx, span := s.startSpan(ctx, "ListTasks")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `SELECT `+taskColumns+` FROM wellness_tasks WHERE user_id = $1 ORDER BY sort_order, created_at, id`, userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	out := make([]entity.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, s.mapError(err)
		}
		out = append(out, *t)
	}

	return out, s.mapError(rows.Err())
}

func (s *DB) CreateTask(ctx context.Context, t entity.Task) (err error) {
	ctx, span := s.startSpan(ctx, "CreateTask")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO wellness_tasks (`+taskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.UserID, t.Title, t.Category, t.IsCompleted, t.Order, t.CreatedAt, t.UpdatedAt,
	)
	return s.mapError(err)
}

func (s *DB) GetTask(ctx context.Context, userID, id int64) (_ *entity.Task, err error) {
	ctx, span := s.startSpan(ctx, "GetTask")
	defer func() { s.endSpan(span, err) }()

	t, err := scanTask(s.conn.QueryRow(ctx, `SELECT `+taskColumns+` FROM wellness_tasks WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, s.mapError(err)
	}
	return t, nil
}

func (s *DB) UpdateTask(ctx context.Context, t entity.Task) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateTask")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE wellness_tasks
		SET title = $3, category = $4, is_completed = $5, sort_order = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2`,
		t.ID, t.UserID, t.Title, t.Category, t.IsCompleted, t.Order, t.UpdatedAt,
	)
	if err != nil {
		return s.mapError(err)
	}
	return rowsOrNotFound(tag)
}

func (s *DB) DeleteTask(ctx context.Context, userID, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteTask")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `DELETE FROM wellness_tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return s.mapError(err)
	}
	return rowsOrNotFound(tag)
}
