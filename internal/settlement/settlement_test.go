package settlement

import (
	"testing"

	"github.com/google/uuid"

	"colorcrash/internal/domain"
)

var multipliers = map[domain.Color]float64{
	domain.ColorRed:   1.98,
	domain.ColorGreen: 1.98,
	domain.ColorBlue:  5,
}

func newBet(amount float64, color domain.Color) *domain.Bet {
	return &domain.Bet{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Amount: amount,
		Color:  color,
		Status: domain.BetPending,
	}
}

func TestApplyMarksEveryBetExactlyOnce(t *testing.T) {
	round := &domain.Round{
		ID: "202501010001",
		Bets: []*domain.Bet{
			newBet(50, domain.ColorRed),
			newBet(100, domain.ColorBlue),
			newBet(30, domain.ColorGreen),
			newBet(20, domain.ColorRed),
		},
	}

	credits := Apply(round, domain.ColorRed, multipliers)

	for _, bet := range round.Bets {
		if bet.Status == domain.BetPending {
			t.Errorf("bet %s left pending after settlement", bet.ID)
		}
		switch bet.Status {
		case domain.BetWon:
			if bet.Color != domain.ColorRed {
				t.Errorf("bet on %s marked won, winner was red", bet.Color)
			}
		case domain.BetLost:
			if bet.Payout != 0 {
				t.Errorf("lost bet has payout %v", bet.Payout)
			}
		}
	}

	if len(credits) != 2 {
		t.Fatalf("credits = %d, want 2", len(credits))
	}
	want := 50*1.98 + 20*1.98
	if got := TotalPayout(credits); got != want {
		t.Fatalf("total payout = %v, want %v", got, want)
	}
}

func TestApplyPayoutMath(t *testing.T) {
	bet := newBet(50, domain.ColorRed)
	round := &domain.Round{ID: "202501010002", Bets: []*domain.Bet{bet}}

	credits := Apply(round, domain.ColorRed, multipliers)

	if bet.Payout != 99 {
		t.Fatalf("payout = %v, want exactly 99", bet.Payout)
	}
	if len(credits) != 1 || credits[0].Amount != 99 {
		t.Fatalf("credit = %+v, want one credit of 99", credits)
	}
}

func TestApplyIsIdempotentOnSettledBets(t *testing.T) {
	bet := newBet(50, domain.ColorBlue)
	round := &domain.Round{ID: "202501010003", Bets: []*domain.Bet{bet}}

	first := Apply(round, domain.ColorBlue, multipliers)
	second := Apply(round, domain.ColorBlue, multipliers)

	if len(first) != 1 {
		t.Fatalf("first pass credits = %d, want 1", len(first))
	}
	if len(second) != 0 {
		t.Fatalf("second pass produced %d credits, settled bets must not pay twice", len(second))
	}
	if bet.Payout != 250 {
		t.Fatalf("payout = %v, want 250", bet.Payout)
	}
}

func TestApplyEmptyRound(t *testing.T) {
	round := &domain.Round{ID: "202501010004"}
	if credits := Apply(round, domain.ColorGreen, multipliers); len(credits) != 0 {
		t.Fatalf("empty round produced credits: %+v", credits)
	}
}
