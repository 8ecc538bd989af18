package round

import (
	"errors"
	"time"

	"github.com/roseline-games/blackjack-server/internal/blackjack"
)

// Status represents a round's lifecycle state. finished is terminal.
type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Outcome of a finished round. Empty while the round is active.
type Outcome string

const (
	OutcomeWin       Outcome = "win"
	OutcomeLose      Outcome = "lose"
	OutcomePush      Outcome = "push"
	OutcomeBlackjack Outcome = "blackjack"
)

var (
	ErrRoundNotFound = errors.New("round not found")
	ErrInvalidState  = errors.New("round is not active")
	ErrInvalidBet    = errors.New("bet must be positive")
	ErrInvalidPlayer = errors.New("player id is required")
	ErrDuplicateID   = errors.New("round id already exists")
)

// Round is the persisted state of one blackjack round. Hands grow only while
// the round is active; once Status is finished nothing mutates it again.
type Round struct {
	ID         string         `json:"id"`
	PlayerID   string         `json:"player_id"`
	Bet        int64          `json:"bet"`
	PlayerHand blackjack.Hand `json:"player_hand"`
	DealerHand blackjack.Hand `json:"dealer_hand"`
	Status     Status         `json:"status"`
	Outcome    Outcome        `json:"outcome,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// PlayerTotal is always recomputed from the hand, never stored separately.
func (r *Round) PlayerTotal() int { return r.PlayerHand.Total() }

func (r *Round) DealerTotal() int { return r.DealerHand.Total() }

// Payout is the amount credited back to the balance at settlement. A natural
// blackjack returns the stake plus 3:2 winnings; odd bets round down.
func (o Outcome) Payout(bet int64) int64 {
	switch o {
	case OutcomeBlackjack:
		return bet + bet*3/2
	case OutcomeWin:
		return bet * 2
	case OutcomePush:
		return bet
	default:
		return 0
	}
}

// Winnings is the net result relative to the original bet, as recorded in
// history: +1.5x, +1x, 0 or -1x the bet.
func (o Outcome) Winnings(bet int64) int64 {
	return o.Payout(bet) - bet
}
