package gamedto

import "strings"

// Round actions accepted by the game endpoint.
const (
	ActionDeal  = "deal"
	ActionHit   = "hit"
	ActionStand = "stand"
)

// GameActionRequest is the body of POST /api/game. All fields are validated
// before any state mutation.
type GameActionRequest struct {
	PlayerID string `json:"playerId"`
	Action   string `json:"action"`
	Bet      int64  `json:"bet,omitempty"`
	RoundID  string `json:"roundId,omitempty"`
}

func (r *GameActionRequest) Validate() error {
	switch strings.TrimSpace(r.Action) {
	case ActionDeal:
		if strings.TrimSpace(r.PlayerID) == "" {
			return DomainError{Code: CodeInvalidInput, Message: "playerId is required"}
		}
		if r.Bet <= 0 {
			return DomainError{Code: CodeInvalidInput, Message: "bet must be a positive amount"}
		}
	case ActionHit, ActionStand:
		if strings.TrimSpace(r.RoundID) == "" {
			return DomainError{Code: CodeInvalidInput, Message: "roundId is required"}
		}
	default:
		return DomainError{Code: CodeInvalidInput, Message: "action must be deal, hit or stand"}
	}
	return nil
}

// BuyChipsRequest is the body of POST /api/chips/buy.
type BuyChipsRequest struct {
	PlayerID string `json:"playerId"`
	Amount   int64  `json:"amount"`
}

func (r *BuyChipsRequest) Validate() error {
	if strings.TrimSpace(r.PlayerID) == "" {
		return DomainError{Code: CodeInvalidInput, Message: "playerId is required"}
	}
	if r.Amount <= 0 {
		return DomainError{Code: CodeInvalidInput, Message: "amount must be a positive amount"}
	}
	return nil
}

// AdviceRequest is the body of POST /api/ai. Hands are rank names only; the
// advisor never sees or touches round state.
type AdviceRequest struct {
	PlayerHand []string `json:"playerHand"`
	DealerCard string   `json:"dealerCard"`
}

func (r *AdviceRequest) Validate() error {
	if len(r.PlayerHand) == 0 || strings.TrimSpace(r.DealerCard) == "" {
		return DomainError{Code: CodeInvalidInput, Message: "playerHand and dealerCard are required"}
	}
	return nil
}
