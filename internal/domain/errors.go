package domain

import "errors"

// Validation errors: the request itself is malformed. No state change.
var (
	ErrInvalidAmount = errors.New("amount must be a positive multiple of the wager unit")
	ErrUnknownColor  = errors.New("unknown color")
	ErrInvalidPhone  = errors.New("invalid phone number")
	ErrWeakPassword  = errors.New("password must be at least 6 characters")
)

// State-conflict errors: the request is well formed but arrives in the wrong
// state. No state change.
var (
	ErrBettingClosed  = errors.New("betting is not open")
	ErrRoundMismatch  = errors.New("round id does not match the open round")
	ErrDuplicateBet   = errors.New("user already has a bet in this round")
	ErrNotBetOwner    = errors.New("bet belongs to another user")
	ErrAlreadySettled = errors.New("round already settled")
	ErrSeedWithheld   = errors.New("seed is withheld until the round completes")
)

// Not-found errors
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrRoundNotFound = errors.New("round not found")
	ErrBetNotFound   = errors.New("bet not found")
)

// Funds
var ErrInsufficientFunds = errors.New("insufficient balance")

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPhoneTaken         = errors.New("phone number already registered")
	ErrPhoneNotVerified   = errors.New("phone number not verified")
	ErrInvalidReferral    = errors.New("invalid referral code")
	ErrOTPNotFound        = errors.New("otp not found")
	ErrOTPExpired         = errors.New("otp expired")
	ErrOTPMismatch        = errors.New("otp does not match")
)
