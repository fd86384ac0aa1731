package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a player account
type User struct {
	ID              uuid.UUID  `json:"id"`
	Username        string     `json:"username"`
	Phone           string     `json:"phone"`
	PasswordHash    string     `json:"-"` // Never expose password hash in JSON
	Name            string     `json:"name"`
	Balance         float64    `json:"balance"`
	ReferralCode    string     `json:"referral_code"`
	ReferredBy      *uuid.UUID `json:"referred_by,omitempty"`
	ReferralCount   int        `json:"referral_count"`
	IsPhoneVerified bool       `json:"is_phone_verified"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Clone returns a copy safe to hand out past the ledger lock.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.ReferredBy != nil {
		ref := *u.ReferredBy
		c.ReferredBy = &ref
	}
	return &c
}

// OTP represents a one-time phone verification code
type OTP struct {
	ID        uuid.UUID `json:"id"`
	Phone     string    `json:"phone"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}
