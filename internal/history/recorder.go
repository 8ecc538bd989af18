package history

import (
	"context"
	"time"

	"github.com/roseline-games/blackjack-server/internal/domain"
)

// MaxRecentLimit bounds one page of history. Implementations clamp larger
// limits, and callers computing pagination must clamp the same way or a
// full page at the cap would look like the last one.
const MaxRecentLimit = 50

// Recorder is the append-only audit trail of finished rounds. Entries are
// never mutated after Append; failures here must not block settlement.
type Recorder interface {
	// Append stores one finished round. Re-appending the same entry ID is a
	// no-op so retries cannot duplicate history.
	Append(ctx context.Context, entry *domain.HistoryEntry) error

	// Recent returns up to limit entries for the player, newest first.
	// A non-zero before bounds results to timestamps strictly earlier,
	// which is how callers page through older games.
	Recent(ctx context.Context, playerID string, limit int, before time.Time) ([]*domain.HistoryEntry, error)
}
