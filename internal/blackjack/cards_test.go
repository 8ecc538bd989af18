package blackjack

import "testing"

func TestRankBaseValue(t *testing.T) {
	cases := map[Rank]int{
		"2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7, "8": 8, "9": 9, "10": 10,
		RankJack: 10, RankQueen: 10, RankKing: 10, RankAce: 11,
	}
	for r, want := range cases {
		if got := r.BaseValue(); got != want {
			t.Errorf("BaseValue(%s) = %d, want %d", r, got, want)
		}
	}
}

func TestHandTotal(t *testing.T) {
	cases := []struct {
		name  string
		ranks []Rank
		want  int
	}{
		{"soft seventeen", []Rank{RankAce, "6"}, 17},
		{"double ace demoted", []Rank{RankAce, RankAce, "9"}, 21},
		{"bust without aces", []Rank{RankKing, RankQueen, "5"}, 25},
		{"ace saves bust", []Rank{RankAce, "9", "5"}, 15},
		{"natural", []Rank{RankAce, RankKing}, 21},
		{"hard twenty", []Rank{"10", RankQueen}, 20},
		{"empty hand", nil, 0},
	}
	for _, tc := range cases {
		h := make(Hand, 0, len(tc.ranks))
		for _, r := range tc.ranks {
			h = append(h, NewCard(r))
		}
		if got := h.Total(); got != tc.want {
			t.Errorf("%s: Total() = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestIsNatural(t *testing.T) {
	natural := Hand{NewCard(RankAce), NewCard(RankKing)}
	if !natural.IsNatural() {
		t.Fatalf("A+K should be a natural blackjack")
	}
	// Three-card 21 is not a natural.
	slow := Hand{NewCard("7"), NewCard("7"), NewCard("7")}
	if slow.IsNatural() {
		t.Fatalf("three sevens total 21 but are not a natural")
	}
	twoCardTwenty := Hand{NewCard("10"), NewCard(RankQueen)}
	if twoCardTwenty.IsNatural() {
		t.Fatalf("two-card 20 is not a natural")
	}
}

func TestDrawCardProducesValidCards(t *testing.T) {
	seen := make(map[Rank]bool)
	for i := 0; i < 2000; i++ {
		c := DrawCard()
		if c.Value != c.Rank.BaseValue() {
			t.Fatalf("card %s has value %d, want %d", c.Rank, c.Value, c.Rank.BaseValue())
		}
		seen[c.Rank] = true
	}
	// With 2000 i.i.d. draws every one of the 13 ranks should appear.
	if len(seen) != len(ranks) {
		t.Errorf("expected all %d ranks over 2000 draws, saw %d", len(ranks), len(seen))
	}
}

func TestHandCloneIsIndependent(t *testing.T) {
	h := Hand{NewCard("5"), NewCard("9")}
	c := h.Clone()
	c = append(c, NewCard(RankAce))
	c[0] = NewCard(RankKing)
	if len(h) != 2 || h[0].Rank != "5" {
		t.Fatalf("mutating the clone changed the original hand: %v", h)
	}
}
