package usecase

import (
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"colorcrash/configs"
	"colorcrash/internal/domain"
	"colorcrash/internal/metrics"
	"colorcrash/internal/scheduler"
	"colorcrash/internal/store"
)

// BetService validates wager requests and forwards them to the ledger.
type BetService struct {
	ledger *store.Ledger
	sched  *scheduler.Scheduler
	game   configs.GameConfig
	log    *zap.Logger
}

// NewBetService creates a new BetService
func NewBetService(ledger *store.Ledger, sched *scheduler.Scheduler, game configs.GameConfig, log *zap.Logger) *BetService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BetService{ledger: ledger, sched: sched, game: game, log: log}
}

// validateWager checks the request shape only; balance and phase checks
// belong to the ledger's critical section.
func (s *BetService) validateWager(amount float64, color domain.Color) error {
	if amount <= 0 || math.Mod(amount, s.game.WagerUnit) != 0 {
		return domain.ErrInvalidAmount
	}
	if !color.Valid() {
		return domain.ErrUnknownColor
	}
	return nil
}

// PlaceBet places a wager in the given round and reports the potential win.
// An empty roundID targets whatever round is currently open.
func (s *BetService) PlaceBet(userID uuid.UUID, roundID string, amount float64, color domain.Color) (*domain.Bet, float64, error) {
	if err := s.validateWager(amount, color); err != nil {
		metrics.BetsRejected.Inc()
		return nil, 0, err
	}
	if roundID == "" {
		if state := s.sched.GameState(); state != nil {
			roundID = state.RoundID
		}
	}

	bet, err := s.ledger.PlaceBet(userID, roundID, amount, color)
	if err != nil {
		metrics.BetsRejected.Inc()
		return nil, 0, err
	}
	metrics.BetsPlaced.Inc()

	s.log.Info("bet placed",
		zap.String("round", bet.RoundID),
		zap.String("user", userID.String()),
		zap.Float64("amount", amount),
		zap.String("color", string(color)))
	return bet, amount * s.game.Multipliers[color], nil
}

// UpdateBet changes the caller's bet while betting is open.
func (s *BetService) UpdateBet(betID, userID uuid.UUID, amount float64, color domain.Color) (*domain.Bet, float64, error) {
	if err := s.validateWager(amount, color); err != nil {
		metrics.BetsRejected.Inc()
		return nil, 0, err
	}
	bet, err := s.ledger.UpdateBet(betID, userID, amount, color)
	if err != nil {
		metrics.BetsRejected.Inc()
		return nil, 0, err
	}
	return bet, amount * s.game.Multipliers[color], nil
}

// RemoveBet withdraws the caller's bet and returns the refunded amount.
func (s *BetService) RemoveBet(betID, userID uuid.UUID) (float64, error) {
	refund, err := s.ledger.RemoveBet(betID, userID)
	if err != nil {
		metrics.BetsRejected.Inc()
		return 0, err
	}
	return refund, nil
}

// UserBets returns the caller's bet history, newest first.
func (s *BetService) UserBets(userID uuid.UUID, limit int) []*domain.Bet {
	if limit <= 0 {
		limit = 10
	}
	return s.ledger.UserBets(userID, limit)
}

// CurrentBet returns the caller's bet in the open round, if any.
func (s *BetService) CurrentBet(userID uuid.UUID) (*domain.Bet, error) {
	return s.ledger.CurrentBetFor(userID)
}

// RecentBets returns the latest bets across all players.
func (s *BetService) RecentBets(limit int) []*domain.Bet {
	if limit <= 0 {
		limit = 20
	}
	return s.ledger.RecentBets(limit)
}
