package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// debitScript performs the compare-and-decrement in a single Redis call.
// Returns -1 when the balance cannot cover the amount.
var debitScript = redis.NewScript(`
local bal = tonumber(redis.call('GET', KEYS[1]) or '0')
local amt = tonumber(ARGV[1])
if bal < amt then
  return -1
end
return redis.call('DECRBY', KEYS[1], amt)
`)

type RedisLedger struct {
	rdb *redis.Client
}

func NewRedisLedger(rdb *redis.Client) *RedisLedger {
	return &RedisLedger{rdb: rdb}
}

func chipsKey(playerID string) string { return "bj:chips:" + strings.TrimSpace(playerID) }

func (l *RedisLedger) Debit(ctx context.Context, playerID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	res, err := debitScript.Run(ctx, l.rdb, []string{chipsKey(playerID)}, amount).Int64()
	if err != nil {
		return 0, fmt.Errorf("debit chips: %w", err)
	}
	if res < 0 {
		return 0, ErrInsufficientFunds
	}
	return res, nil
}

func (l *RedisLedger) Credit(ctx context.Context, playerID string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, ErrInvalidAmount
	}
	bal, err := l.rdb.IncrBy(ctx, chipsKey(playerID), amount).Result()
	if err != nil {
		return 0, fmt.Errorf("credit chips: %w", err)
	}
	return bal, nil
}

func (l *RedisLedger) Balance(ctx context.Context, playerID string) (int64, error) {
	bal, err := l.rdb.Get(ctx, chipsKey(playerID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get chips: %w", err)
	}
	return bal, nil
}

func (l *RedisLedger) GetOrCreate(ctx context.Context, playerID string, grant int64) (int64, bool, error) {
	if grant < 0 {
		return 0, false, ErrInvalidAmount
	}
	created, err := l.rdb.SetNX(ctx, chipsKey(playerID), grant, 0).Result()
	if err != nil {
		return 0, false, fmt.Errorf("init chips: %w", err)
	}
	if created {
		return grant, true, nil
	}
	bal, err := l.Balance(ctx, playerID)
	return bal, false, err
}
