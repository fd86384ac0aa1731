package usecase

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"colorcrash/configs"
	"colorcrash/internal/domain"
	"colorcrash/internal/store"
)

// AuthService handles OTP verification, registration with referral bonuses,
// and credential checks. Token minting stays in the HTTP layer.
type AuthService struct {
	ledger *store.Ledger
	cfg    *configs.Config
	log    *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(ledger *store.Ledger, cfg *configs.Config, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{ledger: ledger, cfg: cfg, log: log}
}

// SendOTP issues a fresh verification code for the phone. The code would go
// out via SMS in production; here it is logged for the demo flow.
func (s *AuthService) SendOTP(phone string) error {
	if len(phone) < 10 {
		return domain.ErrInvalidPhone
	}

	var code strings.Builder
	for i := 0; i < s.cfg.OTP.Length; i++ {
		fmt.Fprintf(&code, "%d", rand.IntN(10))
	}

	s.ledger.SaveOTP(&domain.OTP{
		ID:        uuid.New(),
		Phone:     phone,
		Code:      code.String(),
		ExpiresAt: time.Now().Add(s.cfg.OTP.ExpiresIn),
		CreatedAt: time.Now(),
	})

	s.log.Info("otp issued", zap.String("phone", phone), zap.String("code", code.String()))
	return nil
}

// VerifyOTP checks the submitted code and marks the phone verified.
func (s *AuthService) VerifyOTP(phone, code string) error {
	otp, err := s.ledger.OTPByPhone(phone)
	if err != nil {
		return err
	}
	if time.Now().After(otp.ExpiresAt) {
		s.ledger.DeleteOTP(phone)
		return domain.ErrOTPExpired
	}
	if otp.Code != code {
		return domain.ErrOTPMismatch
	}
	return s.ledger.MarkOTPVerified(phone)
}

// Register creates an account for a verified phone. A valid referral code
// credits the bonus to both parties.
func (s *AuthService) Register(phone, password, name, referralCode string) (*domain.User, error) {
	if len(phone) < 10 {
		return nil, domain.ErrInvalidPhone
	}
	if len(password) < 6 {
		return nil, domain.ErrWeakPassword
	}

	otp, err := s.ledger.OTPByPhone(phone)
	if err != nil || !otp.Verified {
		return nil, domain.ErrPhoneNotVerified
	}
	if _, err := s.ledger.UserByPhone(phone); err == nil {
		return nil, domain.ErrPhoneTaken
	}

	var referrer *domain.User
	if referralCode != "" {
		referrer, err = s.ledger.UserByReferralCode(strings.ToUpper(referralCode))
		if err != nil {
			return nil, domain.ErrInvalidReferral
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	balance := s.cfg.Game.InitialBalance
	user := &domain.User{
		ID:              uuid.New(),
		Username:        "user_" + phone[len(phone)-4:],
		Phone:           phone,
		PasswordHash:    string(hashed),
		Name:            name,
		Balance:         balance,
		ReferralCode:    s.ledger.GenerateReferralCode(s.cfg.Referral.CodeLength),
		IsPhoneVerified: true,
		CreatedAt:       time.Now(),
	}
	if referrer != nil {
		user.Balance += s.cfg.Referral.BonusAmount
		ref := referrer.ID
		user.ReferredBy = &ref
	}

	if err := s.ledger.CreateUser(user); err != nil {
		return nil, err
	}

	if referrer != nil {
		if _, err := s.ledger.AdjustBalance(referrer.ID, s.cfg.Referral.BonusAmount); err != nil {
			s.log.Warn("referrer bonus credit failed", zap.Error(err))
		}
		if err := s.ledger.IncrementReferralCount(referrer.ID); err != nil {
			s.log.Warn("referral count bump failed", zap.Error(err))
		}
	}

	s.ledger.DeleteOTP(phone)
	s.log.Info("user registered", zap.String("user", user.ID.String()), zap.Bool("referred", referrer != nil))
	return user.Clone(), nil
}

// Login checks credentials and returns the account.
func (s *AuthService) Login(phone, password string) (*domain.User, error) {
	user, err := s.ledger.UserByPhone(phone)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Profile returns the account record.
func (s *AuthService) Profile(userID uuid.UUID) (*domain.User, error) {
	return s.ledger.UserByID(userID)
}
