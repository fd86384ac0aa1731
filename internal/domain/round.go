package domain

import (
	"time"

	"github.com/google/uuid"
)

// Phase is one state of the round lifecycle
type Phase string

// Round lifecycle phases
const (
	PhaseInit     Phase = "INIT"
	PhaseBetting  Phase = "BETTING"
	PhaseWinning  Phase = "WINNING"
	PhaseComplete Phase = "COMPLETE"
)

// Color is an outcome category players can wager on
type Color string

// Outcome categories
const (
	ColorRed   Color = "red"
	ColorGreen Color = "green"
	ColorBlue  Color = "blue"
)

// Colors lists every valid outcome category.
var Colors = []Color{ColorRed, ColorGreen, ColorBlue}

// Valid reports whether c is a known category.
func (c Color) Valid() bool {
	switch c {
	case ColorRed, ColorGreen, ColorBlue:
		return true
	}
	return false
}

// BetStatus is the settlement state of a bet
type BetStatus string

// Bet settlement states
const (
	BetPending BetStatus = "pending"
	BetWon     BetStatus = "won"
	BetLost    BetStatus = "lost"
)

// Round is one cycle of the betting game. While active it is owned by the
// scheduler; once archived it is an immutable historical record.
type Round struct {
	ID           string     `json:"id"`
	StartedAt    time.Time  `json:"started_at"`
	Phase        Phase      `json:"phase"`
	Seed         string     `json:"-"` // secret until the round completes
	SeedHash     string     `json:"seed_hash"`
	WinningColor Color      `json:"winning_color,omitempty"`
	RevealedAt   *time.Time `json:"revealed_at,omitempty"`
	Bets         []*Bet     `json:"bets"`
}

// Revealed reports whether the winning color has been derived.
func (r *Round) Revealed() bool {
	return r.WinningColor != ""
}

// BetByID finds a bet in the round, nil if absent.
func (r *Round) BetByID(id uuid.UUID) *Bet {
	for _, b := range r.Bets {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// BetByUser finds a user's bet in the round, nil if absent.
func (r *Round) BetByUser(userID uuid.UUID) *Bet {
	for _, b := range r.Bets {
		if b.UserID == userID {
			return b
		}
	}
	return nil
}

// Clone deep-copies the round including its bets.
func (r *Round) Clone() *Round {
	if r == nil {
		return nil
	}
	c := *r
	if r.RevealedAt != nil {
		at := *r.RevealedAt
		c.RevealedAt = &at
	}
	c.Bets = make([]*Bet, len(r.Bets))
	for i, b := range r.Bets {
		bc := *b
		c.Bets[i] = &bc
	}
	return &c
}

// Bet is a single wager inside a round
type Bet struct {
	ID        uuid.UUID `json:"id"`
	RoundID   string    `json:"round_id"`
	UserID    uuid.UUID `json:"user_id"`
	Amount    float64   `json:"amount"`
	Color     Color     `json:"color"`
	Payout    float64   `json:"payout"`
	Status    BetStatus `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
