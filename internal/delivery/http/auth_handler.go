package http

import (
	"github.com/labstack/echo/v4"

	"colorcrash/configs"
	"colorcrash/internal/delivery/http/dto"
	"colorcrash/internal/middleware"
	"colorcrash/internal/usecase"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	auth *usecase.AuthService
	cfg  *configs.Config
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *usecase.AuthService, cfg *configs.Config) *AuthHandler {
	return &AuthHandler{auth: auth, cfg: cfg}
}

// SendOTP handles POST /api/auth/send-otp
func (h *AuthHandler) SendOTP(c echo.Context) error {
	var req dto.SendOTPRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "invalid request body")
	}
	if err := h.auth.SendOTP(req.Phone); err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, map[string]string{"message": "otp sent"})
}

// VerifyOTP handles POST /api/auth/verify-otp
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req dto.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "invalid request body")
	}
	if err := h.auth.VerifyOTP(req.Phone, req.Code); err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, map[string]string{"message": "phone verified"})
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "invalid request body")
	}

	user, err := h.auth.Register(req.Phone, req.Password, req.Name, req.ReferralCode)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	token, err := middleware.GenerateJWT(h.cfg.JWT.Secret, h.cfg.JWT.ExpiresIn, user.ID, user.Phone)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return CreatedResponse(c, dto.AuthResponse{Token: token, User: dto.NewUserOutput(user)})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "invalid request body")
	}

	user, err := h.auth.Login(req.Phone, req.Password)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	token, err := middleware.GenerateJWT(h.cfg.JWT.Secret, h.cfg.JWT.ExpiresIn, user.ID, user.Phone)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, dto.AuthResponse{Token: token, User: dto.NewUserOutput(user)})
}

// Profile handles GET /api/auth/profile
func (h *AuthHandler) Profile(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "invalid token")
	}
	user, err := h.auth.Profile(userID)
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, dto.NewUserOutput(user))
}
