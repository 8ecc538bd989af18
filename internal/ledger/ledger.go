package ledger

import (
	"context"
	"errors"
)

var (
	ErrInsufficientFunds = errors.New("insufficient chips")
	ErrInvalidAmount     = errors.New("amount must be positive")
)

// Ledger is the single owner of player chip balances. Round logic never
// writes a balance directly; every mutation goes through Debit or Credit.
//
// Debit must be one conditional atomic operation against the backing store,
// never a read followed by a write, so two concurrent debits cannot both pass
// a balance check against a stale read.
type Ledger interface {
	// Debit decrements the balance only if it covers amount; otherwise the
	// balance is unchanged and ErrInsufficientFunds is returned. Returns the
	// balance after the debit.
	Debit(ctx context.Context, playerID string, amount int64) (int64, error)

	// Credit increments the balance and returns the new value. amount >= 0.
	Credit(ctx context.Context, playerID string, amount int64) (int64, error)

	// Balance returns the current balance; an unknown player reads as 0.
	Balance(ctx context.Context, playerID string) (int64, error)

	// GetOrCreate initializes the player's balance with grant if no record
	// exists yet. Reports whether a new record was created.
	GetOrCreate(ctx context.Context, playerID string, grant int64) (int64, bool, error)
}
