package entity

import "time"

type WalletTransaction struct {
	ID           int64
	UserID       int64
	Kind         TransactionKind
	Service      Service
	Minutes      int
	BalanceAfter int
	CreatedAt    time.Time
}
