package http

import (
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"colorcrash/internal/delivery/http/dto"
	"colorcrash/internal/domain"
	"colorcrash/internal/middleware"
	"colorcrash/internal/usecase"
)

// BetHandler handles bet endpoints
type BetHandler struct {
	bets *usecase.BetService
}

// NewBetHandler creates a new BetHandler
func NewBetHandler(bets *usecase.BetService) *BetHandler {
	return &BetHandler{bets: bets}
}

// Place handles POST /api/bets/place
func (h *BetHandler) Place(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "invalid token")
	}

	var req dto.PlaceBetRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "invalid request body")
	}

	bet, potential, err := h.bets.PlaceBet(userID, req.RoundID, req.Amount, domain.Color(req.Color))
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return CreatedResponse(c, dto.PlaceBetResponse{
		Bet:          dto.NewBetOutput(bet),
		PotentialWin: potential,
	})
}

// Update handles PUT /api/bets/update
func (h *BetHandler) Update(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "invalid token")
	}

	var req dto.UpdateBetRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "invalid request body")
	}
	betID, err := uuid.Parse(req.BetID)
	if err != nil {
		return BadRequestResponse(c, "invalid bet id")
	}

	bet, potential, err := h.bets.UpdateBet(betID, userID, req.Amount, domain.Color(req.Color))
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, dto.PlaceBetResponse{
		Bet:          dto.NewBetOutput(bet),
		PotentialWin: potential,
	})
}

// Remove handles DELETE /api/bets/remove
func (h *BetHandler) Remove(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "invalid token")
	}

	var req dto.RemoveBetRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "invalid request body")
	}
	betID, err := uuid.Parse(req.BetID)
	if err != nil {
		return BadRequestResponse(c, "invalid bet id")
	}

	refund, err := h.bets.RemoveBet(betID, userID)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, map[string]float64{"refunded": refund})
}

// MyBets handles GET /api/bets/user/history
func (h *BetHandler) MyBets(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "invalid token")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return SuccessResponse(c, dto.NewBetOutputs(h.bets.UserBets(userID, limit)))
}

// Current handles GET /api/bets/user/current
func (h *BetHandler) Current(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "invalid token")
	}
	bet, err := h.bets.CurrentBet(userID)
	if err != nil {
		if errors.Is(err, domain.ErrBetNotFound) {
			return SuccessResponse(c, nil)
		}
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, dto.NewBetOutput(bet))
}

// Recent handles GET /api/bets/all
func (h *BetHandler) Recent(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return SuccessResponse(c, dto.NewBetOutputs(h.bets.RecentBets(limit)))
}
