package http

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"colorcrash/internal/middleware"
)

// Router bundles the handlers behind the /api surface
type Router struct {
	auth      *AuthHandler
	game      *GameHandler
	bets      *BetHandler
	users     *UserHandler
	jwtSecret string
}

// NewRouter creates a new Router
func NewRouter(auth *AuthHandler, game *GameHandler, bets *BetHandler, users *UserHandler, jwtSecret string) *Router {
	return &Router{auth: auth, game: game, bets: bets, users: users, jwtSecret: jwtSecret}
}

// Setup registers all routes on the echo instance.
func (r *Router) Setup(e *echo.Echo) {
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/send-otp", r.auth.SendOTP)
	auth.POST("/verify-otp", r.auth.VerifyOTP)
	auth.POST("/register", r.auth.Register)
	auth.POST("/login", r.auth.Login)
	auth.GET("/profile", r.auth.Profile, middleware.Auth(r.jwtSecret))

	game := api.Group("/game")
	game.GET("/state", r.game.State)
	game.GET("/config", r.game.Config)
	game.GET("/history", r.game.History)
	game.GET("/fairness/:roundId", r.game.Fairness)

	bets := api.Group("/bets", middleware.Auth(r.jwtSecret))
	bets.POST("/place", r.bets.Place)
	bets.PUT("/update", r.bets.Update)
	bets.DELETE("/remove", r.bets.Remove)
	bets.GET("/user/history", r.bets.MyBets)
	bets.GET("/user/current", r.bets.Current)
	bets.GET("/all", r.bets.Recent)

	users := api.Group("/users", middleware.Auth(r.jwtSecret))
	users.GET("/me", r.users.Me)
	users.GET("/balance", r.users.Balance)
	users.POST("/balance/add", r.users.AddBalance)
}
