package store

import (
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"colorcrash/internal/domain"
)

// HistoryLimit caps how many completed rounds the ledger keeps in memory and
// in snapshots.
const HistoryLimit = 100

const referralAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Ledger is the in-memory store of users, balances, OTPs, the active round
// and recent round history. A single mutex guards all of it: every
// read-modify-write (balance check and debit, bet append, phase flip,
// settlement) is one critical section, so a bet can never land in a round
// that is mid-transition. Nothing inside the lock performs I/O.
type Ledger struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*domain.User
	otps    map[string]*domain.OTP
	current *domain.Round
	history []*domain.Round
	log     *zap.Logger
}

// NewLedger creates an empty ledger.
func NewLedger(log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{
		users: make(map[uuid.UUID]*domain.User),
		otps:  make(map[string]*domain.OTP),
		log:   log,
	}
}

// CreateUser registers a new user. The phone number must be unique.
func (l *Ledger) CreateUser(user *domain.User) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, u := range l.users {
		if u.Phone == user.Phone {
			return domain.ErrPhoneTaken
		}
	}
	l.users[user.ID] = user.Clone()
	return nil
}

// UserByID returns a copy of the user record.
func (l *Ledger) UserByID(id uuid.UUID) (*domain.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	user, ok := l.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user.Clone(), nil
}

// UserByPhone looks a user up by phone number.
func (l *Ledger) UserByPhone(phone string) (*domain.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, u := range l.users {
		if u.Phone == phone {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// UserByReferralCode looks a user up by referral code.
func (l *Ledger) UserByReferralCode(code string) (*domain.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, u := range l.users {
		if u.ReferralCode == code {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// AdjustBalance applies a delta to a user's balance and returns the new
// value. The balance is clamped at zero; callers that must not overdraw
// (bets) pre-check inside their own critical section.
func (l *Ledger) AdjustBalance(id uuid.UUID, delta float64) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	user, ok := l.users[id]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	user.Balance += delta
	if user.Balance < 0 {
		user.Balance = 0
	}
	return user.Balance, nil
}

// IncrementReferralCount bumps a referrer's count.
func (l *Ledger) IncrementReferralCount(id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	user, ok := l.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.ReferralCount++
	return nil
}

// GenerateReferralCode returns a fresh uppercase code not used by any
// existing user.
func (l *Ledger) GenerateReferralCode(length int) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	for {
		buf := make([]byte, length)
		for i := range buf {
			buf[i] = referralAlphabet[rand.IntN(len(referralAlphabet))]
		}
		code := string(buf)
		if !l.referralCodeTaken(code) {
			return code
		}
	}
}

func (l *Ledger) referralCodeTaken(code string) bool {
	for _, u := range l.users {
		if u.ReferralCode == code {
			return true
		}
	}
	return false
}

// SaveOTP stores the pending verification code for a phone, replacing any
// previous one.
func (l *Ledger) SaveOTP(otp *domain.OTP) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.otps[otp.Phone] = otp
}

// OTPByPhone returns the pending code for a phone.
func (l *Ledger) OTPByPhone(phone string) (*domain.OTP, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	otp, ok := l.otps[phone]
	if !ok {
		return nil, domain.ErrOTPNotFound
	}
	cp := *otp
	return &cp, nil
}

// MarkOTPVerified flags a phone's pending code as verified.
func (l *Ledger) MarkOTPVerified(phone string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	otp, ok := l.otps[phone]
	if !ok {
		return domain.ErrOTPNotFound
	}
	otp.Verified = true
	return nil
}

// DeleteOTP drops a phone's pending code.
func (l *Ledger) DeleteOTP(phone string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.otps, phone)
}

// Snapshot copies the durable state: all users and the completed round
// history. The in-flight round is deliberately excluded; it is rebuilt by the
// scheduler on restart.
func (l *Ledger) Snapshot() *domain.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := &domain.Snapshot{
		Users:  make([]*domain.User, 0, len(l.users)),
		Rounds: make([]*domain.Round, 0, len(l.history)),
	}
	for _, u := range l.users {
		snap.Users = append(snap.Users, u.Clone())
	}
	for _, r := range l.history {
		snap.Rounds = append(snap.Rounds, r.Clone())
	}
	return snap
}

// Restore merges a loaded snapshot into the ledger. Meant for startup, before
// the scheduler begins; a nil snapshot leaves the ledger fresh.
func (l *Ledger) Restore(snap *domain.Snapshot) {
	if snap == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, u := range snap.Users {
		l.users[u.ID] = u.Clone()
	}
	for _, r := range snap.Rounds {
		l.history = append(l.history, r.Clone())
	}
	if overflow := len(l.history) - HistoryLimit; overflow > 0 {
		l.history = l.history[overflow:]
	}
	l.log.Info("ledger restored from snapshot",
		zap.Int("users", len(snap.Users)),
		zap.Int("rounds", len(snap.Rounds)))
}
