package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
	"github.com/mindcarehq/mindcare/internal/pkg/idempotency"
	"github.com/mindcarehq/mindcare/internal/wellness/entity"
)

var (
	errInsufficientMinutes = goerror.NewBusiness("insufficient wallet minutes", goerror.CodeConflict)
	errRechargeInProgress  = goerror.NewBusiness("a request with this Idempotency-Key is still being processed", goerror.CodeConflict)
)

type WalletOutput struct {
	Minutes      int
	Transactions []entity.WalletTransaction
}

// Wallet returns the balance and the most recent movements.
func (s *Usecase) Wallet(ctx context.Context) (*WalletOutput, error) {
	ctx, span := s.startSpan(ctx, "Wallet")
	defer span.End()

	userID, err := authUserID(ctx)
	if err != nil {
		return nil, err
	}

	minutes, err := s.repoDB.GetWalletMinutes(ctx, userID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, errAuthRequired
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get wallet minutes", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	txs, err := s.repoDB.ListWalletTransactions(ctx, userID, recentTransactions)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list wallet transactions", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &WalletOutput{Minutes: minutes, Transactions: txs}, nil
}

type RechargeWalletInput struct {
	Minutes int `json:"minutes" validate:"required,min=1,max=600"`
	// IdempotencyKey comes from the Idempotency-Key header.
	IdempotencyKey string `json:"-" validate:"max=128"`
}

type WalletChangeOutput struct {
	Minutes     int                      `json:"minutes"`
	Transaction entity.WalletTransaction `json:"transaction"`
	Replayed    bool                     `json:"-"`
}

// RechargeWallet adds minutes. Requests repeating an Idempotency-Key get the
// first result back without charging again.
func (s *Usecase) RechargeWallet(ctx context.Context, in RechargeWalletInput) (*WalletChangeOutput, error) {
	ctx, span := s.startSpan(ctx, "RechargeWallet")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	userID, err := authUserID(ctx)
	if err != nil {
		return nil, err
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" {
		return s.recharge(ctx, userID, in.Minutes)
	}

	raw, replayed, err := s.idempotency.Do(ctx, fmt.Sprintf("wallet:recharge:%d:%s", userID, key), func(ctx context.Context) ([]byte, error) {
		out, err := s.recharge(ctx, userID, in.Minutes)
		if err != nil {
			return nil, err
		}
		return json.Marshal(out)
	})
	if errors.Is(err, idempotency.ErrInProgress) {
		return nil, errRechargeInProgress
	}
	var gerr *goerror.Error
	if errors.As(err, &gerr) {
		return nil, err
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to run idempotent recharge", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	var out WalletChangeOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		slog.ErrorContext(ctx, "failed to decode stored recharge result", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}
	out.Replayed = replayed

	return &out, nil
}

func (s *Usecase) recharge(ctx context.Context, userID int64, minutes int) (*WalletChangeOutput, error) {
	tx := entity.WalletTransaction{
		ID:        s.uid.Generate(),
		UserID:    userID,
		Kind:      entity.TransactionRecharge,
		Minutes:   minutes,
		CreatedAt: s.clock.Now(),
	}

	balance, err := s.repoDB.RechargeWallet(ctx, tx)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, errAuthRequired
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo recharge wallet", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}
	tx.BalanceAfter = balance

	return &WalletChangeOutput{Minutes: balance, Transaction: tx}, nil
}

type UseWalletInput struct {
	Service string `json:"service" validate:"required,oneof=call chat"`
	Minutes int    `json:"minutes" validate:"required,min=1,max=240"`
}

// UseWallet deducts minutes for a call or chat.
func (s *Usecase) UseWallet(ctx context.Context, in UseWalletInput) (*WalletChangeOutput, error) {
	ctx, span := s.startSpan(ctx, "UseWallet")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	userID, err := authUserID(ctx)
	if err != nil {
		return nil, err
	}

	tx := entity.WalletTransaction{
		ID:        s.uid.Generate(),
		UserID:    userID,
		Kind:      entity.TransactionUsage,
		Service:   entity.Service(in.Service).Ensure(),
		Minutes:   in.Minutes,
		CreatedAt: s.clock.Now(),
	}

	balance, err := s.repoDB.SpendWallet(ctx, tx)
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "wallet balance too low", "user_id", userID, "minutes", in.Minutes)
		return nil, errInsufficientMinutes
	}
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, errAuthRequired
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo spend wallet", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}
	tx.BalanceAfter = balance

	return &WalletChangeOutput{Minutes: balance, Transaction: tx}, nil
}
