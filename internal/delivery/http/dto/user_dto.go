package dto

import (
	"time"

	"colorcrash/internal/domain"
)

// UserOutput represents user data in API responses
type UserOutput struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Phone           string    `json:"phone"`
	Name            string    `json:"name"`
	Balance         float64   `json:"balance"`
	ReferralCode    string    `json:"referral_code"`
	ReferralCount   int       `json:"referral_count"`
	IsPhoneVerified bool      `json:"is_phone_verified"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewUserOutput converts a domain user into its API shape.
func NewUserOutput(u *domain.User) *UserOutput {
	return &UserOutput{
		ID:              u.ID.String(),
		Username:        u.Username,
		Phone:           u.Phone,
		Name:            u.Name,
		Balance:         u.Balance,
		ReferralCode:    u.ReferralCode,
		ReferralCount:   u.ReferralCount,
		IsPhoneVerified: u.IsPhoneVerified,
		CreatedAt:       u.CreatedAt,
	}
}

// AddBalanceRequest tops up the caller's balance
type AddBalanceRequest struct {
	Amount float64 `json:"amount"`
}
