package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/mindcarehq/mindcare/internal/identity/entity"
)

const otpColumns = `id, email, code, token_hash, purpose, attempts, is_verified, created_at`

func scanOTP(row pgx.Row) (*entity.EmailOTP, error) {
	var o entity.EmailOTP
	if err := row.Scan(&o.ID, &o.Email, &o.Code, &o.TokenHash, &o.Purpose, &o.Attempts, &o.IsVerified, &o.CreatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *DB) CreateEmailOTP(ctx context.Context, in entity.EmailOTP) (err error) {
	ctx, span := s.startSpan(ctx, "CreateEmailOTP")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO identity_email_otps (id, email, code, token_hash, purpose, attempts, is_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, 0, FALSE, $6)`,
		in.ID, in.Email, in.Code, in.TokenHash, in.Purpose, in.CreatedAt,
	)
	return s.mapError(err)
}

func (s *DB) GetLatestEmailOTP(ctx context.Context, email string, p entity.OTPPurpose) (_ *entity.EmailOTP, err error) {
	ctx, span := s.startSpan(ctx, "GetLatestEmailOTP")
	defer func() { s.endSpan(span, err) }()

	o, err := scanOTP(s.conn.QueryRow(ctx, `
		SELECT `+otpColumns+` FROM identity_email_otps
		WHERE email = $1 AND purpose = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		email, p,
	))
	if err != nil {
		return nil, s.mapError(err)
	}
	return o, nil
}

func (s *DB) GetLatestEmailOTPByToken(ctx context.Context, tokenHash, email string, p entity.OTPPurpose) (_ *entity.EmailOTP, err error) {
	ctx, span := s.startSpan(ctx, "GetLatestEmailOTPByToken")
	defer func() { s.endSpan(span, err) }()

	o, err := scanOTP(s.conn.QueryRow(ctx, `
		SELECT `+otpColumns+` FROM identity_email_otps
		WHERE token_hash = $1 AND purpose = $2 AND email = $3
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		tokenHash, p, email,
	))
	if err != nil {
		return nil, s.mapError(err)
	}
	return o, nil
}

func (s *DB) GetEmailOTPByID(ctx context.Context, id int64) (_ *entity.EmailOTP, err error) {
	ctx, span := s.startSpan(ctx, "GetEmailOTPByID")
	defer func() { s.endSpan(span, err) }()

	o, err := scanOTP(s.conn.QueryRow(ctx, `SELECT `+otpColumns+` FROM identity_email_otps WHERE id = $1`, id))
	if err != nil {
		return nil, s.mapError(err)
	}
	return o, nil
}

// IncrementEmailOTPAttempts counts a failed comparison. It reports false when
// the record is already verified, locked or gone.
func (s *DB) IncrementEmailOTPAttempts(ctx context.Context, id int64, maxAttempts int) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "IncrementEmailOTPAttempts")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE identity_email_otps SET attempts = attempts + 1
		WHERE id = $1 AND is_verified = FALSE AND attempts < $2`,
		id, maxAttempts,
	)
	if err != nil {
		return false, s.mapError(err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkEmailOTPVerified reports false when the record got locked or deleted
// in the meantime.
func (s *DB) MarkEmailOTPVerified(ctx context.Context, id int64, maxAttempts int) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkEmailOTPVerified")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE identity_email_otps SET is_verified = TRUE
		WHERE id = $1 AND attempts < $2`,
		id, maxAttempts,
	)
	if err != nil {
		return false, s.mapError(err)
	}
	return tag.RowsAffected() == 1, nil
}
