package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
	"github.com/mindcarehq/mindcare/internal/wellness/entity"
)

func (s *DB) GetWalletMinutes(ctx context.Context, userID int64) (_ int, err error) {
	ctx, span := s.startSpan(ctx, "GetWalletMinutes")
	defer func() { s.endSpan(span, err) }()

	var minutes int
	err = s.conn.QueryRow(ctx, `SELECT wallet_minutes FROM identity_profiles WHERE user_id = $1`, userID).Scan(&minutes)
	return minutes, s.mapError(err)
}

func (s *DB) RechargeWallet(ctx context.Context, in entity.WalletTransaction) (_ int, err error) {
	ctx, span := s.startSpan(ctx, "RechargeWallet")
	defer func() { s.endSpan(span, err) }()

	return s.moveWallet(ctx, in, `
		UPDATE identity_profiles SET wallet_minutes = wallet_minutes + $2, updated_at = $3
		WHERE user_id = $1 RETURNING wallet_minutes`)
}

// SpendWallet returns goerror.ErrConflict when the balance is below the
// requested minutes.
func (s *DB) SpendWallet(ctx context.Context, in entity.WalletTransaction) (_ int, err error) {
	ctx, span := s.startSpan(ctx, "SpendWallet")
	defer func() { s.endSpan(span, err) }()

	balance, err := s.moveWallet(ctx, in, `
		UPDATE identity_profiles SET wallet_minutes = wallet_minutes - $2, updated_at = $3
		WHERE user_id = $1 AND wallet_minutes >= $2 RETURNING wallet_minutes`)
	if errors.Is(err, goerror.ErrNotFound) {
		var exists bool
		if qErr := s.conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM identity_profiles WHERE user_id = $1)`, in.UserID).Scan(&exists); qErr != nil {
			return 0, s.mapError(qErr)
		}
		if exists {
			return 0, goerror.ErrConflict
		}
	}

	return balance, err
}

func (s *DB) moveWallet(ctx context.Context, in entity.WalletTransaction, update string) (int, error) {
	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer s.rollback(ctx, tx)

	var balance int
	if err := tx.QueryRow(ctx, update, in.UserID, in.Minutes, in.CreatedAt).Scan(&balance); err != nil {
		return 0, s.mapError(err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO wellness_wallet_transactions (id, user_id, kind, service, minutes, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		in.ID, in.UserID, in.Kind, in.Service, in.Minutes, balance, in.CreatedAt,
	); err != nil {
		return 0, s.mapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, s.mapError(err)
	}

	return balance, nil
}

func (s *DB) ListWalletTransactions(ctx context.Context, userID int64, limit int) (_ []entity.WalletTransaction, err error) {
	ctx, span := s.startSpan(ctx, "ListWalletTransactions")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT id, user_id, kind, service, minutes, balance_after, created_at
		FROM wellness_wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	out := make([]entity.WalletTransaction, 0)
	for rows.Next() {
		var t entity.WalletTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Kind, &t.Service, &t.Minutes, &t.BalanceAfter, &t.CreatedAt); err != nil {
			return nil, s.mapError(err)
		}
		out = append(out, t)
	}

	return out, s.mapError(rows.Err())
}
