package dto

// SendOTPRequest asks for a verification code
type SendOTPRequest struct {
	Phone string `json:"phone"`
}

// VerifyOTPRequest submits the received code
type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// RegisterRequest creates an account for a verified phone
type RegisterRequest struct {
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	ReferralCode string `json:"referral_code,omitempty"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// AuthResponse carries the token and the account it belongs to
type AuthResponse struct {
	Token string      `json:"token"`
	User  *UserOutput `json:"user"`
}
