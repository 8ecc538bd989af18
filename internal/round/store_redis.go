package round

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRoundTTL = 24 * time.Hour

// RedisStore is the authoritative round store. Transitions run inside a WATCH
// transaction so a concurrent writer invalidates the commit and the loser
// fails with ErrInvalidState once the round has finished.
//
// Every write refreshes the TTL, so a round only expires after ttl of
// inactivity. An abandoned active round expires unsettled and its stake is
// forfeited; there is no refund path for walked-away rounds.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultRoundTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func roundKey(id string) string { return "bj:round:" + strings.TrimSpace(id) }

func (s *RedisStore) Create(ctx context.Context, r *Round) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal round: %w", err)
	}
	ok, err := s.rdb.SetNX(ctx, roundKey(r.ID), raw, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("store round: %w", err)
	}
	if !ok {
		return ErrDuplicateID
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Round, error) {
	raw, err := s.rdb.Get(ctx, roundKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrRoundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load round: %w", err)
	}
	var r Round
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode round: %w", err)
	}
	return &r, nil
}

func (s *RedisStore) UpdateActive(ctx context.Context, id string, fn func(r *Round) error) (*Round, error) {
	key := roundKey(id)
	var updated *Round
	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ErrRoundNotFound
		}
		if err != nil {
			return err
		}
		var cur Round
		if err := json.Unmarshal(raw, &cur); err != nil {
			return fmt.Errorf("decode round: %w", err)
		}
		if cur.Status != StatusActive {
			return ErrInvalidState
		}
		if err := fn(&cur); err != nil {
			return err
		}
		cur.UpdatedAt = time.Now()
		newRaw, err := json.Marshal(&cur)
		if err != nil {
			return fmt.Errorf("marshal round: %w", err)
		}
		pipe := tx.TxPipeline()
		pipe.Set(ctx, key, newRaw, s.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
		updated = &cur
		return nil
	}, key)
	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			// A concurrent transition won the race; the caller sees the
			// round as no longer actionable.
			return nil, ErrInvalidState
		}
		return nil, err
	}
	return updated, nil
}
