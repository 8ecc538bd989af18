package round

import (
	"context"
	"sync"
	"time"
)

// MemoryStore holds rounds for ephemeral local play. The mutex serializes
// transitions, giving the same active-only commit guarantee as the Redis
// store's WATCH transaction.
type MemoryStore struct {
	mu     sync.Mutex
	rounds map[string]*Round
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rounds: make(map[string]*Round)}
}

func cloneRound(r *Round) *Round {
	cp := *r
	cp.PlayerHand = r.PlayerHand.Clone()
	cp.DealerHand = r.DealerHand.Clone()
	return &cp
}

func (s *MemoryStore) Create(_ context.Context, r *Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rounds[r.ID]; exists {
		return ErrDuplicateID
	}
	s.rounds[r.ID] = cloneRound(r)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rounds[id]
	if !ok {
		return nil, ErrRoundNotFound
	}
	return cloneRound(r), nil
}

func (s *MemoryStore) UpdateActive(_ context.Context, id string, fn func(r *Round) error) (*Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rounds[id]
	if !ok {
		return nil, ErrRoundNotFound
	}
	if cur.Status != StatusActive {
		return nil, ErrInvalidState
	}
	work := cloneRound(cur)
	if err := fn(work); err != nil {
		return nil, err
	}
	work.UpdatedAt = time.Now()
	s.rounds[id] = work
	return cloneRound(work), nil
}
