package usecase

import (
	"time"

	"colorcrash/configs"
	"colorcrash/internal/domain"
	"colorcrash/internal/fairness"
	"colorcrash/internal/scheduler"
	"colorcrash/internal/store"
)

// GameService exposes read-only game views: live state, history, fairness
// data and the static game parameters.
type GameService struct {
	ledger *store.Ledger
	sched  *scheduler.Scheduler
	game   configs.GameConfig
}

// NewGameService creates a new GameService
func NewGameService(ledger *store.Ledger, sched *scheduler.Scheduler, game configs.GameConfig) *GameService {
	return &GameService{ledger: ledger, sched: sched, game: game}
}

// State returns the polling view of the current round, nil before the first
// round opens.
func (s *GameService) State() *scheduler.GameState {
	return s.sched.GameState()
}

// FairnessData is what a player needs to verify a round. Before the round
// completes the seed is withheld and the number is -1.
type FairnessData struct {
	RoundID      string       `json:"round_id"`
	Seed         string       `json:"seed,omitempty"`
	SeedHash     string       `json:"seed_hash"`
	WinningColor domain.Color `json:"winning_color,omitempty"`
	Number       int          `json:"number"`
	Verified     bool         `json:"verified"`
}

// Fairness returns the verification triple for a round. The seed is only
// disclosed once the round reaches COMPLETE.
func (s *GameService) Fairness(roundID string) (*FairnessData, error) {
	round, err := s.ledger.RoundByID(roundID)
	if err != nil {
		return nil, err
	}

	if round.Phase != domain.PhaseComplete {
		return &FairnessData{
			RoundID:      round.ID,
			SeedHash:     round.SeedHash,
			WinningColor: round.WinningColor,
			Number:       -1,
		}, nil
	}

	return &FairnessData{
		RoundID:      round.ID,
		Seed:         round.Seed,
		SeedHash:     round.SeedHash,
		WinningColor: round.WinningColor,
		Number:       fairness.Outcome(round.Seed, round.ID),
		Verified:     fairness.Verify(round.Seed, round.SeedHash, round.ID, round.WinningColor, s.game.ColorRanges),
	}, nil
}

// HistoryItem is one completed round in the public history listing.
type HistoryItem struct {
	ID           string       `json:"id"`
	WinningColor domain.Color `json:"winning_color"`
	TotalBets    int          `json:"total_bets"`
	StartedAt    time.Time    `json:"started_at"`
}

// History lists completed rounds, newest first.
func (s *GameService) History(limit int) []HistoryItem {
	if limit <= 0 {
		limit = 10
	}
	rounds := s.ledger.History(limit)
	items := make([]HistoryItem, len(rounds))
	for i, r := range rounds {
		items[i] = HistoryItem{
			ID:           r.ID,
			WinningColor: r.WinningColor,
			TotalBets:    len(r.Bets),
			StartedAt:    r.StartedAt,
		}
	}
	return items
}

// GameConfigView is the static game configuration shown to clients.
type GameConfigView struct {
	Multipliers   map[domain.Color]float64        `json:"multipliers"`
	Probabilities map[domain.Color]string         `json:"probabilities"`
	ColorRanges   map[domain.Color]fairness.Range `json:"color_ranges"`
	WagerUnit     float64                         `json:"wager_unit"`
	InitSeconds   int                             `json:"init_seconds"`
	BetSeconds    int                             `json:"betting_seconds"`
	WinSeconds    int                             `json:"winning_seconds"`
}

// Config returns the public game parameters.
func (s *GameService) Config() GameConfigView {
	return GameConfigView{
		Multipliers:   s.game.Multipliers,
		Probabilities: fairness.Probabilities(s.game.ColorRanges),
		ColorRanges:   s.game.ColorRanges,
		WagerUnit:     s.game.WagerUnit,
		InitSeconds:   int(s.game.InitDuration.Seconds()),
		BetSeconds:    int(s.game.BettingDuration.Seconds()),
		WinSeconds:    int(s.game.WinningDuration.Seconds()),
	}
}
