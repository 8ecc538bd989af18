package ledger

import (
	"context"
	"sync"
)

// MemoryLedger backs ephemeral local play where no Redis is configured. Same
// invariants as the Redis ledger, serialized by a mutex instead of a script.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[string]int64
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: make(map[string]int64)}
}

func (l *MemoryLedger) Debit(_ context.Context, playerID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	bal := l.balances[playerID]
	if bal < amount {
		return 0, ErrInsufficientFunds
	}
	bal -= amount
	l.balances[playerID] = bal
	return bal, nil
}

func (l *MemoryLedger) Credit(_ context.Context, playerID string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[playerID] += amount
	return l.balances[playerID], nil
}

func (l *MemoryLedger) Balance(_ context.Context, playerID string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[playerID], nil
}

func (l *MemoryLedger) GetOrCreate(_ context.Context, playerID string, grant int64) (int64, bool, error) {
	if grant < 0 {
		return 0, false, ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if bal, ok := l.balances[playerID]; ok {
		return bal, false, nil
	}
	l.balances[playerID] = grant
	return grant, true, nil
}
