package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/mindcarehq/mindcare/internal/catalog/entity"
)

// filterClause matches category case-insensitively and, when set, the
// featured flag.
const filterClause = `WHERE ($1 = '' OR lower(category) = lower($1)) AND ($2::boolean IS NULL OR is_featured = $2)`

func (s *DB) ListGuidance(ctx context.Context, f entity.Filter) (_ []entity.Guidance, err error) {
	ctx, span := s.startSpan(ctx, "ListGuidance")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT id, resource_type, title, subtitle, summary, category, duration, media_url, thumbnail, is_featured
		FROM catalog_guidance_resources `+filterClause+`
		ORDER BY is_featured DESC, created_at DESC, id`, f.Category, f.Featured)
	if err != nil {
		return nil, s.mapError(err)
	}

	out, err := collect(rows, func(row pgx.Row) (g entity.Guidance, err error) {
		err = row.Scan(&g.ID, &g.ResourceType, &g.Title, &g.Subtitle, &g.Summary, &g.Category,
			&g.Duration, &g.MediaURL, &g.Thumbnail, &g.IsFeatured)
		return g, err
	})
	return out, s.mapError(err)
}

func (s *DB) ListMusic(ctx context.Context) (_ []entity.Music, err error) {
	ctx, span := s.startSpan(ctx, "ListMusic")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT id, title, description, duration_seconds, audio_url, mood, thumbnail
		FROM catalog_music_tracks
		ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, s.mapError(err)
	}

	out, err := collect(rows, func(row pgx.Row) (m entity.Music, err error) {
		err = row.Scan(&m.ID, &m.Title, &m.Description, &m.DurationSeconds, &m.AudioURL, &m.Mood, &m.Thumbnail)
		return m, err
	})
	return out, s.mapError(err)
}

func (s *DB) ListBoosters(ctx context.Context) (_ []entity.Booster, err error) {
	ctx, span := s.startSpan(ctx, "ListBoosters")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT id, title, subtitle, description, category, icon, action_label, prompt, estimated_seconds, resource_url
		FROM catalog_boosters
		ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, s.mapError(err)
	}

	out, err := collect(rows, func(row pgx.Row) (b entity.Booster, err error) {
		err = row.Scan(&b.ID, &b.Title, &b.Subtitle, &b.Description, &b.Category, &b.Icon,
			&b.ActionLabel, &b.Prompt, &b.EstimatedSeconds, &b.ResourceURL)
		return b, err
	})
	return out, s.mapError(err)
}

func (s *DB) ListMeditations(ctx context.Context, f entity.Filter) (_ []entity.Meditation, err error) {
	ctx, span := s.startSpan(ctx, "ListMeditations")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT id, title, subtitle, description, category, duration_minutes, difficulty, audio_url, video_url, is_featured, thumbnail
		FROM catalog_meditation_sessions `+filterClause+`
		ORDER BY is_featured DESC, created_at DESC, id`, f.Category, f.Featured)
	if err != nil {
		return nil, s.mapError(err)
	}

	out, err := collect(rows, func(row pgx.Row) (m entity.Meditation, err error) {
		err = row.Scan(&m.ID, &m.Title, &m.Subtitle, &m.Description, &m.Category, &m.DurationMinutes,
			&m.Difficulty, &m.AudioURL, &m.VideoURL, &m.IsFeatured, &m.Thumbnail)
		return m, err
	})
	return out, s.mapError(err)
}

// ListCategories returns the distinct non-empty categories per kind, sorted
// by kind then value. Labels are left to the caller.
func (s *DB) ListCategories(ctx context.Context) (_ []entity.Category, err error) {
	ctx, span := s.startSpan(ctx, "ListCategories")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT 'guidance', category FROM catalog_guidance_resources WHERE category <> ''
		UNION
		SELECT 'boosters', category FROM catalog_boosters WHERE category <> ''
		UNION
		SELECT 'meditations', category FROM catalog_meditation_sessions WHERE category <> ''
		ORDER BY 1, 2`)
	if err != nil {
		return nil, s.mapError(err)
	}

	out, err := collect(rows, func(row pgx.Row) (c entity.Category, err error) {
		var kind string
		err = row.Scan(&kind, &c.Value)
		c.Kind = entity.Kind(kind)
		return c, err
	})
	return out, s.mapError(err)
}

func (s *DB) CreateGuidance(ctx context.Context, g entity.Guidance) (err error) {
	ctx, span := s.startSpan(ctx, "CreateGuidance")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO catalog_guidance_resources
			(id, resource_type, title, subtitle, summary, category, duration, media_url, thumbnail, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		g.ID, g.ResourceType, g.Title, g.Subtitle, g.Summary, g.Category, g.Duration, g.MediaURL, g.Thumbnail, g.IsFeatured,
	)
	return s.mapError(err)
}

func (s *DB) CreateMusic(ctx context.Context, m entity.Music) (err error) {
	ctx, span := s.startSpan(ctx, "CreateMusic")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO catalog_music_tracks (id, title, description, duration_seconds, audio_url, mood, thumbnail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Title, m.Description, m.DurationSeconds, m.AudioURL, m.Mood, m.Thumbnail,
	)
	return s.mapError(err)
}

func (s *DB) CreateBooster(ctx context.Context, b entity.Booster) (err error) {
	ctx, span := s.startSpan(ctx, "CreateBooster")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO catalog_boosters
			(id, title, subtitle, description, category, icon, action_label, prompt, estimated_seconds, resource_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.Title, b.Subtitle, b.Description, b.Category, b.Icon, b.ActionLabel, b.Prompt, b.EstimatedSeconds, b.ResourceURL,
	)
	return s.mapError(err)
}

func (s *DB) CreateMeditation(ctx context.Context, m entity.Meditation) (err error) {
	ctx, span := s.startSpan(ctx, "CreateMeditation")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO catalog_meditation_sessions
			(id, title, subtitle, description, category, duration_minutes, difficulty, audio_url, video_url, is_featured, thumbnail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.Title, m.Subtitle, m.Description, m.Category, m.DurationMinutes, m.Difficulty,
		m.AudioURL, m.VideoURL, m.IsFeatured, m.Thumbnail,
	)
	return s.mapError(err)
}
