package domain

import (
	"time"

	"github.com/roseline-games/blackjack-server/internal/blackjack"
)

// HistoryEntry is the immutable snapshot of a finished round, taken at
// settlement. Winnings are net of the original bet.
type HistoryEntry struct {
	ID          string
	PlayerID    string
	Timestamp   time.Time
	Bet         int64
	Result      string
	PlayerTotal int
	DealerTotal int
	PlayerHand  blackjack.Hand
	DealerHand  blackjack.Hand
	Winnings    int64
}
