package blackjack

import (
	"math/rand"
	"strconv"
)

// Rank is a card face: 2..10, J, Q, K, A.
type Rank string

const (
	RankJack  Rank = "J"
	RankQueen Rank = "Q"
	RankKing  Rank = "K"
	RankAce   Rank = "A"
)

var ranks = []Rank{"2", "3", "4", "5", "6", "7", "8", "9", "10", RankJack, RankQueen, RankKing, RankAce}

// Card carries the rank together with its nominal value (ace counted as 11).
// Immutable once drawn; ace demotion happens in HandTotal, never on the card.
type Card struct {
	Rank  Rank `json:"rank"`
	Value int  `json:"value"`
}

// BaseValue maps a rank to its nominal blackjack value. Face cards are 10,
// an ace is nominally 11.
func (r Rank) BaseValue() int {
	switch r {
	case RankJack, RankQueen, RankKing:
		return 10
	case RankAce:
		return 11
	default:
		n, _ := strconv.Atoi(string(r))
		return n
	}
}

func NewCard(r Rank) Card {
	return Card{Rank: r, Value: r.BaseValue()}
}

// DrawCard picks a rank uniformly at random. The shoe is infinite: draws are
// independent and repeated ranks within a hand are valid.
func DrawCard() Card {
	return NewCard(ranks[rand.Intn(len(ranks))])
}

// Hand is an ordered sequence of cards, append-only during a round.
type Hand []Card

// Total resolves the best score under ace-flex rules: sum nominal values, then
// demote aces from 11 to 1 one at a time while the sum exceeds 21.
func (h Hand) Total() int {
	total := 0
	aces := 0
	for _, c := range h {
		total += c.Value
		if c.Rank == RankAce {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// IsNatural reports whether the hand is a two-card 21 dealt before any hit.
func (h Hand) IsNatural() bool {
	return len(h) == 2 && h.Total() == 21
}

// IsBust reports whether the total exceeds 21 with no ace left to demote.
func (h Hand) IsBust() bool {
	return h.Total() > 21
}

// Names returns the ranks as plain strings, in deal order.
func (h Hand) Names() []string {
	out := make([]string, len(h))
	for i, c := range h {
		out[i] = string(c.Rank)
	}
	return out
}

// Clone returns an independent copy so finished rounds stay immutable.
func (h Hand) Clone() Hand {
	if h == nil {
		return nil
	}
	out := make(Hand, len(h))
	copy(out, h)
	return out
}
