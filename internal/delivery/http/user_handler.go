package http

import (
	"github.com/labstack/echo/v4"

	"colorcrash/internal/delivery/http/dto"
	"colorcrash/internal/middleware"
	"colorcrash/internal/usecase"
)

// UserHandler handles user account endpoints
type UserHandler struct {
	users *usecase.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *usecase.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "invalid token")
	}
	user, err := h.users.Me(userID)
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, dto.NewUserOutput(user))
}

// Balance handles GET /api/users/balance
func (h *UserHandler) Balance(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "invalid token")
	}
	balance, err := h.users.Balance(userID)
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, map[string]float64{"balance": balance})
}

// AddBalance handles POST /api/users/balance/add
func (h *UserHandler) AddBalance(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "invalid token")
	}

	var req dto.AddBalanceRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "invalid request body")
	}

	balance, err := h.users.AddBalance(userID, req.Amount)
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, map[string]float64{"balance": balance})
}
