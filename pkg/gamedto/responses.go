package gamedto

type Card struct {
	Rank  string `json:"rank"`
	Value int    `json:"value"`
}

// RoundSnapshot is returned by every round action. Result is present only once
// the round is finished; GameActive mirrors it for clients.
type RoundSnapshot struct {
	RoundID     string `json:"gameId"`
	PlayerCards []Card `json:"playerCards"`
	DealerCards []Card `json:"dealerCards"`
	PlayerTotal int    `json:"playerTotal"`
	DealerTotal int    `json:"dealerTotal"`
	Result      string `json:"result,omitempty"`
	Message     string `json:"message,omitempty"`
	GameActive  bool   `json:"gameActive"`
	Balance     int64  `json:"balance"`
}

type BalanceResponse struct {
	Chips int64 `json:"chips"`
}

type BuyChipsResponse struct {
	Success    bool  `json:"success"`
	NewBalance int64 `json:"newBalance"`
}

// HistoryGame is one finished round in a player's history, newest first.
type HistoryGame struct {
	ID          string `json:"id"`
	PlayerID    string `json:"playerId"`
	Timestamp   int64  `json:"timestamp"`
	Bet         int64  `json:"bet"`
	Result      string `json:"result"`
	PlayerTotal int    `json:"playerTotal"`
	DealerTotal int    `json:"dealerTotal"`
	PlayerCards []Card `json:"playerCards"`
	DealerCards []Card `json:"dealerCards"`
	Winnings    int64  `json:"winnings"`
}

type HistoryResponse struct {
	Games   []HistoryGame `json:"games"`
	Cursor  string        `json:"cursor,omitempty"`
	HasMore bool          `json:"hasMore"`
	Count   int           `json:"count"`
}

type AdviceResponse struct {
	Recommendation string `json:"recommendation"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Retryable bool   `json:"retryable,omitempty"`
}
