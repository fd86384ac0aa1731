package dto

import "colorcrash/internal/domain"

// PlaceBetRequest places a wager in the open round. RoundID is optional; an
// empty value targets the currently open round.
type PlaceBetRequest struct {
	RoundID string  `json:"round_id,omitempty"`
	Amount  float64 `json:"amount"`
	Color   string  `json:"color"`
}

// UpdateBetRequest changes the caller's pending bet
type UpdateBetRequest struct {
	BetID  string  `json:"bet_id"`
	Amount float64 `json:"amount"`
	Color  string  `json:"color"`
}

// RemoveBetRequest withdraws the caller's pending bet
type RemoveBetRequest struct {
	BetID string `json:"bet_id"`
}

// BetOutput represents a bet in API responses
type BetOutput struct {
	ID        string  `json:"id"`
	RoundID   string  `json:"round_id"`
	Amount    float64 `json:"amount"`
	Color     string  `json:"color"`
	Payout    float64 `json:"payout"`
	Status    string  `json:"status"`
	CreatedAt int64   `json:"created_at"`
}

// NewBetOutput converts a domain bet into its API shape.
func NewBetOutput(b *domain.Bet) *BetOutput {
	return &BetOutput{
		ID:        b.ID.String(),
		RoundID:   b.RoundID,
		Amount:    b.Amount,
		Color:     string(b.Color),
		Payout:    b.Payout,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt.UnixMilli(),
	}
}

// NewBetOutputs converts a slice of bets.
func NewBetOutputs(bets []*domain.Bet) []*BetOutput {
	out := make([]*BetOutput, len(bets))
	for i, b := range bets {
		out[i] = NewBetOutput(b)
	}
	return out
}

// PlaceBetResponse returns the accepted bet and its potential win
type PlaceBetResponse struct {
	Bet          *BetOutput `json:"bet"`
	PotentialWin float64    `json:"potential_win"`
}
