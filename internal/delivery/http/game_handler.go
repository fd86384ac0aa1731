package http

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"colorcrash/internal/usecase"
)

// GameHandler serves the public game views
type GameHandler struct {
	game *usecase.GameService
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(game *usecase.GameService) *GameHandler {
	return &GameHandler{game: game}
}

// State handles GET /api/game/state
func (h *GameHandler) State(c echo.Context) error {
	state := h.game.State()
	if state == nil {
		return ErrorResponse(c, 503, "no round open yet")
	}
	return SuccessResponse(c, state)
}

// Config handles GET /api/game/config
func (h *GameHandler) Config(c echo.Context) error {
	return SuccessResponse(c, h.game.Config())
}

// History handles GET /api/game/history
func (h *GameHandler) History(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return SuccessResponse(c, h.game.History(limit))
}

// Fairness handles GET /api/game/fairness/:roundId
func (h *GameHandler) Fairness(c echo.Context) error {
	data, err := h.game.Fairness(c.Param("roundId"))
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, data)
}
