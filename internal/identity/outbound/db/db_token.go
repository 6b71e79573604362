package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/mindcarehq/mindcare/internal/identity/entity"
	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
)

func (s *DB) CreateRefreshToken(ctx context.Context, in entity.RefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "CreateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO identity_refresh_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		in.ID, in.UserID, in.TokenHash, in.ExpiresAt, in.CreatedAt,
	)
	return s.mapError(err)
}

func (s *DB) GetUserRefreshToken(ctx context.Context, tokenHash string) (_ *entity.UserRefreshToken, err error) {
	ctx, span := s.startSpan(ctx, "GetUserRefreshToken")
	defer func() { s.endSpan(span, err) }()

	var rt entity.UserRefreshToken
	err = s.conn.QueryRow(ctx, `
		SELECT t.id, t.user_id, t.token_hash, t.expires_at, t.revoked_at, t.created_at, u.email, u.role
		FROM identity_refresh_tokens t
		JOIN identity_users u ON u.id = t.user_id
		WHERE t.token_hash = $1`,
		tokenHash,
	).Scan(&rt.ID, &rt.UserID, &rt.TokenHash, &rt.ExpiresAt, &rt.RevokedAt, &rt.CreatedAt, &rt.Email, &rt.Role)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &rt, nil
}

// RotateRefreshToken revokes OldID and stores the replacement. It returns
// goerror.ErrNotFound when OldID was already revoked.
func (s *DB) RotateRefreshToken(ctx context.Context, ro entity.RotateRefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "RotateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	tag, err := tx.Exec(ctx, `
		UPDATE identity_refresh_tokens SET revoked_at = now()
		WHERE id = $1 AND user_id = $2 AND revoked_at IS NULL`,
		ro.OldID, ro.UserID,
	)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() != 1 {
		return goerror.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO identity_refresh_tokens (id, user_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)`,
		ro.NewID, ro.UserID, ro.NewTokenHash, ro.NewExpiresAt,
	); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) RevokeRefreshToken(ctx context.Context, tokenHash string, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		UPDATE identity_refresh_tokens SET revoked_at = now()
		WHERE token_hash = $1 AND user_id = $2 AND revoked_at IS NULL`,
		tokenHash, userID,
	)
	return s.mapError(err)
}
