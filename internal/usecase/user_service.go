package usecase

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"colorcrash/internal/domain"
	"colorcrash/internal/store"
)

// UserService covers account views and wallet top-ups.
type UserService struct {
	ledger *store.Ledger
	log    *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(ledger *store.Ledger, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{ledger: ledger, log: log}
}

// Me returns the account record.
func (s *UserService) Me(userID uuid.UUID) (*domain.User, error) {
	return s.ledger.UserByID(userID)
}

// Balance returns the current wallet balance.
func (s *UserService) Balance(userID uuid.UUID) (float64, error) {
	user, err := s.ledger.UserByID(userID)
	if err != nil {
		return 0, err
	}
	return user.Balance, nil
}

// AddBalance credits the wallet and returns the new balance.
func (s *UserService) AddBalance(userID uuid.UUID, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	balance, err := s.ledger.AdjustBalance(userID, amount)
	if err != nil {
		return 0, err
	}
	s.log.Info("balance topped up",
		zap.String("user", userID.String()),
		zap.Float64("amount", amount),
		zap.Float64("balance", balance))
	return balance, nil
}
