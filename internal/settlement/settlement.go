package settlement

import (
	"github.com/google/uuid"

	"colorcrash/internal/domain"
)

// Credit is a payout owed to a user after settlement.
type Credit struct {
	UserID uuid.UUID
	BetID  uuid.UUID
	Amount float64
}

// Apply walks every pending bet in the round and marks it won or lost against
// the winning color. Winners get payout = amount * multiplier for their
// color; losers get zero. The returned credits are applied to balances by the
// caller, which also enforces that a round is settled at most once.
//
// Bets that are already settled are left untouched, so a repeated call
// cannot double-pay.
func Apply(round *domain.Round, winning domain.Color, multipliers map[domain.Color]float64) []Credit {
	var credits []Credit
	for _, bet := range round.Bets {
		if bet.Status != domain.BetPending {
			continue
		}
		if bet.Color == winning {
			bet.Status = domain.BetWon
			bet.Payout = bet.Amount * multipliers[winning]
			credits = append(credits, Credit{UserID: bet.UserID, BetID: bet.ID, Amount: bet.Payout})
		} else {
			bet.Status = domain.BetLost
			bet.Payout = 0
		}
	}
	return credits
}

// TotalPayout sums the credits of a settlement pass.
func TotalPayout(credits []Credit) float64 {
	var total float64
	for _, c := range credits {
		total += c.Amount
	}
	return total
}
