package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"colorcrash/internal/domain"
	"colorcrash/internal/fairness"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	JWT      JWTConfig
	Game     GameConfig
	Referral ReferralConfig
	OTP      OTPConfig
	Snapshot SnapshotConfig
	Redis    RedisConfig
	Metrics  MetricsConfig
}

// ServerConfig holds the public API server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// JWTConfig holds token signing configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

// GameConfig holds round timings and payout parameters
type GameConfig struct {
	InitDuration    time.Duration
	BettingDuration time.Duration
	WinningDuration time.Duration
	CompleteDelay   time.Duration
	InitialBalance  float64
	WagerUnit       float64
	Multipliers     map[domain.Color]float64
	ColorRanges     map[domain.Color]fairness.Range
}

// ReferralConfig holds referral bonus configuration
type ReferralConfig struct {
	BonusAmount float64
	CodeLength  int
}

// OTPConfig holds phone verification configuration
type OTPConfig struct {
	Length    int
	ExpiresIn time.Duration
}

// SnapshotConfig selects and parameterizes the persistence backend
type SnapshotConfig struct {
	Backend      string // "file" or "postgres"
	FilePath     string
	DatabaseURL  string
	SaveInterval time.Duration
}

// RedisConfig holds the optional round-event broadcast configuration
type RedisConfig struct {
	Addr    string // empty disables broadcasting
	Channel string
}

// MetricsConfig holds the ops server configuration
type MetricsConfig struct {
	Port string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "5000"),
			Env:  getEnv("GO_ENV", "development"),
		},
		JWT: JWTConfig{
			Secret:    getEnv("JWT_SECRET", "color_crash_jwt_secret_key_2024"),
			ExpiresIn: getEnvDuration("JWT_EXPIRES_IN", 7*24*time.Hour),
		},
		Game: GameConfig{
			InitDuration:    time.Duration(getEnvInt("ROUND_INIT_DURATION", 15)) * time.Second,
			BettingDuration: time.Duration(getEnvInt("ROUND_BETTING_DURATION", 30)) * time.Second,
			WinningDuration: time.Duration(getEnvInt("ROUND_WINNING_DURATION", 15)) * time.Second,
			CompleteDelay:   500 * time.Millisecond,
			InitialBalance:  getEnvFloat("INITIAL_BALANCE", 1000),
			WagerUnit:       getEnvFloat("WAGER_UNIT", 10),
			Multipliers: map[domain.Color]float64{
				domain.ColorRed:   1.98,
				domain.ColorGreen: 1.98,
				domain.ColorBlue:  5,
			},
			ColorRanges: map[domain.Color]fairness.Range{
				domain.ColorRed:   {Min: 0, Max: 39},  // 40% -> x1.98
				domain.ColorBlue:  {Min: 40, Max: 59}, // 20% -> x5
				domain.ColorGreen: {Min: 60, Max: 99}, // 40% -> x1.98
			},
		},
		Referral: ReferralConfig{
			BonusAmount: getEnvFloat("REFERRAL_BONUS", 250),
			CodeLength:  8,
		},
		OTP: OTPConfig{
			Length:    6,
			ExpiresIn: 5 * time.Minute,
		},
		Snapshot: SnapshotConfig{
			Backend:      getEnv("SNAPSHOT_BACKEND", "file"),
			FilePath:     getEnv("SNAPSHOT_FILE", "data/db.json"),
			DatabaseURL:  getEnv("DATABASE_URL", ""),
			SaveInterval: getEnvDuration("SNAPSHOT_INTERVAL", time.Minute),
		},
		Redis: RedisConfig{
			Addr:    getEnv("REDIS_ADDR", ""),
			Channel: getEnv("REDIS_CHANNEL", "round_events"),
		},
		Metrics: MetricsConfig{
			Port: getEnv("METRICS_PORT", "9095"),
		},
	}
}

// Validate rejects configurations that would corrupt round fairness or the
// ledger: the color ranges must partition [0,100) exactly, and timings,
// multipliers and the wager unit must be positive.
func (c *Config) Validate() error {
	if c.Game.InitDuration <= 0 || c.Game.BettingDuration <= 0 || c.Game.WinningDuration <= 0 {
		return fmt.Errorf("phase durations must be positive")
	}
	if c.Game.WagerUnit <= 0 {
		return fmt.Errorf("wager unit must be positive")
	}
	if c.Game.InitialBalance < 0 {
		return fmt.Errorf("initial balance must not be negative")
	}

	for _, color := range domain.Colors {
		m, ok := c.Game.Multipliers[color]
		if !ok || m <= 0 {
			return fmt.Errorf("multiplier for %s must be positive", color)
		}
		if _, ok := c.Game.ColorRanges[color]; !ok {
			return fmt.Errorf("missing outcome range for %s", color)
		}
	}

	// Every number in [0,100) must be claimed by exactly one color.
	var owner [100]int
	for _, r := range c.Game.ColorRanges {
		if r.Min < 0 || r.Max > 99 || r.Min > r.Max {
			return fmt.Errorf("outcome range [%d,%d] is out of bounds", r.Min, r.Max)
		}
		for n := r.Min; n <= r.Max; n++ {
			owner[n]++
		}
	}
	for n, count := range owner {
		if count == 0 {
			return fmt.Errorf("outcome %d is not covered by any color range", n)
		}
		if count > 1 {
			return fmt.Errorf("outcome %d is covered by %d color ranges", n, count)
		}
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
