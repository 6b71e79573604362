package db

import (
	"context"
	"time"

	"github.com/mindcarehq/mindcare/internal/wellness/entity"
)

func (s *DB) ListGroups(ctx context.Context, userID int64) (_ []entity.SupportGroup, err error) {
	ctx, span := s.startSpan(ctx, "ListGroups")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT g.id, g.slug, g.name, g.description, g.icon, (m.user_id IS NOT NULL) AS is_joined
		FROM wellness_support_groups g
		LEFT JOIN wellness_group_memberships m ON m.group_id = g.id AND m.user_id = $1
		ORDER BY g.name`, userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	out := make([]entity.SupportGroup, 0)
	for rows.Next() {
		var g entity.SupportGroup
		if err := rows.Scan(&g.ID, &g.Slug, &g.Name, &g.Description, &g.Icon, &g.IsJoined); err != nil {
			return nil, s.mapError(err)
		}
		out = append(out, g)
	}

	return out, s.mapError(rows.Err())
}

func (s *DB) GetGroupBySlug(ctx context.Context, slug string) (_ *entity.SupportGroup, err error) {
	ctx, span := s.startSpan(ctx, "GetGroupBySlug")
	defer func() { s.endSpan(span, err) }()

	var g entity.SupportGroup
	err = s.conn.QueryRow(ctx, `SELECT id, slug, name, description, icon FROM wellness_support_groups WHERE slug = $1`, slug).
		Scan(&g.ID, &g.Slug, &g.Name, &g.Description, &g.Icon)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &g, nil
}

// JoinGroup is a no-op for an existing member.
func (s *DB) JoinGroup(ctx context.Context, groupID, userID int64, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "JoinGroup")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO wellness_group_memberships (group_id, user_id, joined_at) VALUES ($1, $2, $3)
		ON CONFLICT (group_id, user_id) DO NOTHING`, groupID, userID, at)
	return s.mapError(err)
}

func (s *DB) LeaveGroup(ctx context.Context, groupID, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "LeaveGroup")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `DELETE FROM wellness_group_memberships WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	return s.mapError(err)
}
