package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"colorcrash/configs"
	"colorcrash/internal/database"
	delivery "colorcrash/internal/delivery/http"
	"colorcrash/internal/domain"
	"colorcrash/internal/infra"
	"colorcrash/internal/logger"
	"colorcrash/internal/metrics"
	"colorcrash/internal/pubsub"
	"colorcrash/internal/repository"
	"colorcrash/internal/scheduler"
	"colorcrash/internal/store"
	"colorcrash/internal/usecase"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg := configs.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize the ledger and its snapshot backend
	ledger := store.NewLedger(zlog)

	snapStore, cleanup, err := newSnapshotStore(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize snapshot store", zap.Error(err))
	}
	defer cleanup()

	snap, err := snapStore.Load(ctx)
	if err != nil {
		zlog.Fatal("failed to load snapshot", zap.Error(err))
	}
	ledger.Restore(snap)
	zlog.Info("ledger restored",
		zap.Int("users", len(snap.Users)),
		zap.Int("rounds", len(snap.Rounds)))

	// Optional round-event broadcasting
	var publisher domain.RoundPublisher
	if cfg.Redis.Addr != "" {
		rp, err := pubsub.NewRedisPublisher(ctx, cfg.Redis.Addr, cfg.Redis.Channel, zlog)
		if err != nil {
			zlog.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rp.Close()
		publisher = rp
	}

	// Start the round scheduler
	sched := scheduler.New(ledger, scheduler.Config{
		InitDuration:    cfg.Game.InitDuration,
		BettingDuration: cfg.Game.BettingDuration,
		WinningDuration: cfg.Game.WinningDuration,
		CompleteDelay:   cfg.Game.CompleteDelay,
		Multipliers:     cfg.Game.Multipliers,
		ColorRanges:     cfg.Game.ColorRanges,
	}, nil, zlog, publisher)
	sched.Start(ctx)

	// Periodic snapshot saves run outside the ledger lock; a failed save is
	// logged and retried on the next tick.
	saveSnapshot := func() {
		saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := snapStore.Save(saveCtx, ledger.Snapshot()); err != nil {
			metrics.SnapshotFailures.Inc()
			zlog.Error("snapshot save failed", zap.Error(err))
		}
	}
	c := cron.New()
	if _, err := c.AddFunc("@every "+cfg.Snapshot.SaveInterval.String(), saveSnapshot); err != nil {
		zlog.Fatal("failed to schedule snapshot saves", zap.Error(err))
	}
	c.Start()
	defer c.Stop()

	// Initialize services
	authService := usecase.NewAuthService(ledger, cfg, zlog)
	betService := usecase.NewBetService(ledger, sched, cfg.Game, zlog)
	gameService := usecase.NewGameService(ledger, sched, cfg.Game)
	userService := usecase.NewUserService(ledger, zlog)

	// Initialize HTTP layer
	e := echo.New()
	e.HideBanner = true
	router := delivery.NewRouter(
		delivery.NewAuthHandler(authService, cfg),
		delivery.NewGameHandler(gameService),
		delivery.NewBetHandler(betService),
		delivery.NewUserHandler(userService),
		cfg.JWT.Secret,
	)
	router.Setup(e)

	// Ops surface: prometheus metrics and health checks on a separate port
	opsServer := metrics.StartOpsServer(cfg.Metrics.Port, func(ctx context.Context) error {
		if sched.GameState() == nil {
			return errors.New("no round open")
		}
		return nil
	})

	go func() {
		zlog.Info("api server listening", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("api server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Warn("api server shutdown error", zap.Error(err))
	}
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		zlog.Warn("ops server shutdown error", zap.Error(err))
	}

	// Final snapshot so settled rounds and balances survive the restart.
	saveSnapshot()
	zlog.Info("shutdown complete")
}

// newSnapshotStore selects the persistence backend. The file backend is the
// default; postgres is opt-in via SNAPSHOT_BACKEND=postgres.
func newSnapshotStore(ctx context.Context, cfg *configs.Config, zlog *zap.Logger) (domain.SnapshotStore, func(), error) {
	switch cfg.Snapshot.Backend {
	case "postgres":
		db, err := infra.NewDatabase(ctx, cfg.Snapshot.DatabaseURL, zlog)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(ctx, db, zlog); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repository.NewPostgresStore(db), db.Close, nil
	default:
		fs, err := repository.NewFileStore(cfg.Snapshot.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	}
}
