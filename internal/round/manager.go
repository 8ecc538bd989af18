package round

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roseline-games/blackjack-server/internal/blackjack"
	"github.com/roseline-games/blackjack-server/internal/domain"
	"github.com/roseline-games/blackjack-server/internal/history"
	"github.com/roseline-games/blackjack-server/internal/ledger"
	"github.com/roseline-games/blackjack-server/internal/obslog"
)

// Manager is the round state machine. It owns the lifecycle of a round and
// keeps chip movements in lockstep with state transitions: debit on deal,
// credit exactly once at settlement. It is generic over the Store and Ledger
// so the server-backed and local-only wirings share identical semantics.
type Manager struct {
	store   Store
	chips   ledger.Ledger
	history history.Recorder
	draw    func() blackjack.Card
}

type Option func(*Manager)

// WithDraw replaces the card source. Tests use this to script hands.
func WithDraw(fn func() blackjack.Card) Option {
	return func(m *Manager) { m.draw = fn }
}

func NewManager(store Store, chips ledger.Ledger, recorder history.Recorder, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		chips:   chips,
		history: recorder,
		draw:    blackjack.DrawCard,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Result is the outcome of a round action. HistoryErr carries a failed
// history append: settlement already stands, so it is reported for
// visibility instead of failing the action.
type Result struct {
	Round      *Round
	Balance    int64
	HistoryErr error
}

// Deal debits the bet and opens a new round with two player cards and one
// dealer card. The debit is conditional on sufficient balance; if it fails
// the round is never created. A natural two-card 21 finishes the round
// immediately with the blackjack payout.
func (m *Manager) Deal(ctx context.Context, playerID string, bet int64) (*Result, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, ErrInvalidPlayer
	}
	if bet <= 0 {
		return nil, ErrInvalidBet
	}

	balance, err := m.chips.Debit(ctx, playerID, bet)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	r := &Round{
		ID:         uuid.NewString(),
		PlayerID:   playerID,
		Bet:        bet,
		PlayerHand: blackjack.Hand{m.draw(), m.draw()},
		DealerHand: blackjack.Hand{m.draw()},
		Status:     StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if r.PlayerHand.IsNatural() {
		r.Status = StatusFinished
		r.Outcome = OutcomeBlackjack
	}

	if err := m.store.Create(ctx, r); err != nil {
		// The bet is already taken; hand it back so no chips vanish.
		if _, cerr := m.chips.Credit(ctx, playerID, bet); cerr != nil {
			obslog.L().Error("round_deal_refund_failed",
				zap.String("player_id", playerID),
				zap.Int64("bet", bet),
				zap.Error(cerr),
			)
		}
		return nil, err
	}

	obslog.L().Info("round_deal",
		zap.String("round_id", r.ID),
		zap.String("player_id", playerID),
		zap.Int64("bet", bet),
		zap.Int("player_total", r.PlayerTotal()),
		zap.String("status", string(r.Status)),
	)

	res := &Result{Round: r, Balance: balance}
	if r.Status == StatusFinished {
		res.Balance, res.HistoryErr, err = m.settle(ctx, r)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Hit draws one card for the player. A bust finishes the round as a loss and
// settles immediately; otherwise the round stays active.
func (m *Manager) Hit(ctx context.Context, roundID string) (*Result, error) {
	r, err := m.store.UpdateActive(ctx, roundID, func(r *Round) error {
		r.PlayerHand = append(r.PlayerHand, m.draw())
		if r.PlayerHand.IsBust() {
			r.Status = StatusFinished
			r.Outcome = OutcomeLose
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	obslog.L().Info("round_hit",
		zap.String("round_id", r.ID),
		zap.String("player_id", r.PlayerID),
		zap.Int("player_total", r.PlayerTotal()),
		zap.String("status", string(r.Status)),
	)

	return m.finishResult(ctx, r)
}

// Stand plays out the dealer: draw while the total is below 17, stand on all
// 17s including soft. The round always finishes and settles here.
func (m *Manager) Stand(ctx context.Context, roundID string) (*Result, error) {
	r, err := m.store.UpdateActive(ctx, roundID, func(r *Round) error {
		for r.DealerHand.Total() < 17 {
			r.DealerHand = append(r.DealerHand, m.draw())
		}
		dealer, player := r.DealerHand.Total(), r.PlayerHand.Total()
		switch {
		case dealer > 21 || player > dealer:
			r.Outcome = OutcomeWin
		case dealer > player:
			r.Outcome = OutcomeLose
		default:
			r.Outcome = OutcomePush
		}
		r.Status = StatusFinished
		return nil
	})
	if err != nil {
		return nil, err
	}

	obslog.L().Info("round_stand",
		zap.String("round_id", r.ID),
		zap.String("player_id", r.PlayerID),
		zap.Int("player_total", r.PlayerTotal()),
		zap.Int("dealer_total", r.DealerTotal()),
		zap.String("outcome", string(r.Outcome)),
	)

	return m.finishResult(ctx, r)
}

// Get returns the round as stored, for status checks.
func (m *Manager) Get(ctx context.Context, roundID string) (*Round, error) {
	return m.store.Get(ctx, roundID)
}

func (m *Manager) finishResult(ctx context.Context, r *Round) (*Result, error) {
	res := &Result{Round: r}
	var err error
	if r.Status == StatusFinished {
		res.Balance, res.HistoryErr, err = m.settle(ctx, r)
	} else {
		res.Balance, err = m.chips.Balance(ctx, r.PlayerID)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// settle pays out a finished round and records it. The caller holds the only
// committed active-to-finished transition for this round, so settlement runs
// exactly once per round id. The history append is best effort: its error is
// logged and returned for visibility but never rolls back the payout.
func (m *Manager) settle(ctx context.Context, r *Round) (balance int64, histErr error, err error) {
	payout := r.Outcome.Payout(r.Bet)
	if payout > 0 {
		balance, err = m.chips.Credit(ctx, r.PlayerID, payout)
	} else {
		balance, err = m.chips.Balance(ctx, r.PlayerID)
	}
	if err != nil {
		// The transition is already committed and never repeats, so this
		// log line carries everything needed to replay the credit by hand.
		obslog.L().Error("round_settle_credit_failed",
			zap.String("round_id", r.ID),
			zap.String("player_id", r.PlayerID),
			zap.Int64("payout", payout),
			zap.Error(err),
		)
		return 0, nil, err
	}

	entry := &domain.HistoryEntry{
		ID:          uuid.NewString(),
		PlayerID:    r.PlayerID,
		Timestamp:   time.Now(),
		Bet:         r.Bet,
		Result:      string(r.Outcome),
		PlayerTotal: r.PlayerTotal(),
		DealerTotal: r.DealerTotal(),
		PlayerHand:  r.PlayerHand.Clone(),
		DealerHand:  r.DealerHand.Clone(),
		Winnings:    r.Outcome.Winnings(r.Bet),
	}
	if histErr = m.history.Append(ctx, entry); histErr != nil {
		obslog.L().Error("round_history_append_failed",
			zap.String("round_id", r.ID),
			zap.String("player_id", r.PlayerID),
			zap.Error(histErr),
		)
	}

	obslog.L().Info("round_settle",
		zap.String("round_id", r.ID),
		zap.String("player_id", r.PlayerID),
		zap.String("outcome", string(r.Outcome)),
		zap.Int64("bet", r.Bet),
		zap.Int64("payout", payout),
		zap.Int64("balance", balance),
	)
	return balance, histErr, nil
}
