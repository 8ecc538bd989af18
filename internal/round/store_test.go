package round

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/roseline-games/blackjack-server/internal/blackjack"
)

func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
	t.Run("redis", func(t *testing.T) {
		mr, err := miniredis.Run()
		if err != nil {
			t.Fatalf("miniredis: %v", err)
		}
		t.Cleanup(func() { mr.Close() })
		fn(t, NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour))
	})
}

func testRound(id string) *Round {
	now := time.Now()
	return &Round{
		ID:         id,
		PlayerID:   "p1",
		Bet:        100,
		PlayerHand: blackjack.Hand{blackjack.NewCard("10"), blackjack.NewCard("8")},
		DealerHand: blackjack.Hand{blackjack.NewCard("5")},
		Status:     StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestStoreCreateRejectsDuplicateID(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		if err := s.Create(ctx, testRound("r1")); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := s.Create(ctx, testRound("r1")); !errors.Is(err, ErrDuplicateID) {
			t.Fatalf("duplicate create: %v", err)
		}
	})
}

func TestStoreGetUnknown(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, ErrRoundNotFound) {
			t.Fatalf("get unknown: %v", err)
		}
	})
}

func TestStoreUpdateActiveIsOneWay(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		if err := s.Create(ctx, testRound("r1")); err != nil {
			t.Fatalf("Create: %v", err)
		}

		finish := func(r *Round) error {
			r.Status = StatusFinished
			r.Outcome = OutcomePush
			return nil
		}
		if _, err := s.UpdateActive(ctx, "r1", finish); err != nil {
			t.Fatalf("first transition: %v", err)
		}
		if _, err := s.UpdateActive(ctx, "r1", finish); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("second transition: %v", err)
		}

		got, err := s.Get(ctx, "r1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Status != StatusFinished || got.Outcome != OutcomePush {
			t.Fatalf("stored round %s/%s", got.Status, got.Outcome)
		}
	})
}

func TestStoreUpdateActiveFnErrorLeavesRoundUntouched(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		if err := s.Create(ctx, testRound("r1")); err != nil {
			t.Fatalf("Create: %v", err)
		}

		boom := errors.New("boom")
		_, err := s.UpdateActive(ctx, "r1", func(r *Round) error {
			r.PlayerHand = append(r.PlayerHand, blackjack.NewCard("2"))
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected fn error, got %v", err)
		}

		got, err := s.Get(ctx, "r1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if len(got.PlayerHand) != 2 || got.Status != StatusActive {
			t.Fatalf("aborted update leaked: %d cards, status %s", len(got.PlayerHand), got.Status)
		}
	})
}
