package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/roseline-games/blackjack-server/internal/domain"
)

// memrepo is the in-memory recorder used for local play and when no database
// is configured.
type memrepo struct {
	mu sync.RWMutex

	byPlayer map[string][]*domain.HistoryEntry // append order, latest last
	byID     map[string]struct{}
}

func NewMemoryRecorder() Recorder {
	return &memrepo{
		byPlayer: make(map[string][]*domain.HistoryEntry),
		byID:     make(map[string]struct{}),
	}
}

func (m *memrepo) Append(_ context.Context, entry *domain.HistoryEntry) error {
	if entry == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.byID[entry.ID]; dup {
		return nil
	}
	cp := *entry
	cp.PlayerHand = entry.PlayerHand.Clone()
	cp.DealerHand = entry.DealerHand.Clone()
	m.byID[entry.ID] = struct{}{}
	m.byPlayer[entry.PlayerID] = append(m.byPlayer[entry.PlayerID], &cp)
	return nil
}

func (m *memrepo) Recent(_ context.Context, playerID string, limit int, before time.Time) ([]*domain.HistoryEntry, error) {
	if limit <= 0 || limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := m.byPlayer[playerID]
	items := make([]*domain.HistoryEntry, 0, len(list))
	for _, e := range list {
		if !before.IsZero() && !e.Timestamp.Before(before) {
			continue
		}
		items = append(items, e)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Timestamp.Equal(items[j].Timestamp) {
			return items[i].Timestamp.After(items[j].Timestamp)
		}
		return items[i].ID > items[j].ID
	})
	if len(items) > limit {
		items = items[:limit]
	}
	out := make([]*domain.HistoryEntry, len(items))
	for i, e := range items {
		cp := *e
		cp.PlayerHand = e.PlayerHand.Clone()
		cp.DealerHand = e.DealerHand.Clone()
		out[i] = &cp
	}
	return out, nil
}
