package scheduler

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"colorcrash/internal/domain"
	"colorcrash/internal/fairness"
	"colorcrash/internal/metrics"
	"colorcrash/internal/store"
	"colorcrash/internal/utils"
)

// Config holds the round timing and payout parameters.
type Config struct {
	InitDuration    time.Duration
	BettingDuration time.Duration
	WinningDuration time.Duration
	CompleteDelay   time.Duration
	Multipliers     map[domain.Color]float64
	ColorRanges     map[domain.Color]fairness.Range
}

// task is a pending lifecycle transition keyed by fire time.
type task struct {
	at   time.Time
	name string
	run  func()
}

// Scheduler drives the round lifecycle INIT -> BETTING -> WINNING ->
// COMPLETE -> (delay) -> INIT. One control loop pops transitions off a time
// ordered queue; the clock is injected so tests advance a mock instead of
// sleeping. Every mutation of round state goes through the ledger, whose
// mutex serializes transitions against concurrent bet traffic.
type Scheduler struct {
	ledger *store.Ledger
	cfg    Config
	clock  clock.Clock
	log    *zap.Logger
	pub    domain.RoundPublisher // optional

	mu             sync.Mutex
	tasks          []task
	wake           chan struct{}
	currentDate    string
	seq            int
	roundID        string
	phase          domain.Phase
	phaseStartedAt time.Time
	phaseEndsAt    time.Time
}

// New creates a scheduler. clk may be nil for the real clock, pub may be nil
// to disable event broadcasting.
func New(ledger *store.Ledger, cfg Config, clk clock.Clock, log *zap.Logger, pub domain.RoundPublisher) *Scheduler {
	if clk == nil {
		clk = clock.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		ledger: ledger,
		cfg:    cfg,
		clock:  clk,
		log:    log,
		pub:    pub,
		wake:   make(chan struct{}, 1),
	}
}

// Start opens the first round and launches the control loop. Cancelling ctx
// stops the loop and drops all pending transitions without firing them.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("starting round scheduler",
		zap.Duration("init", s.cfg.InitDuration),
		zap.Duration("betting", s.cfg.BettingDuration),
		zap.Duration("winning", s.cfg.WinningDuration))
	s.startRound()
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	for {
		s.mu.Lock()
		wait := time.Hour
		if len(s.tasks) > 0 {
			wait = s.tasks[0].at.Sub(s.clock.Now())
		}
		s.mu.Unlock()

		if wait <= 0 {
			s.runDue()
			continue
		}

		timer := s.clock.Timer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.mu.Lock()
			dropped := len(s.tasks)
			s.tasks = nil
			s.mu.Unlock()
			s.log.Info("round scheduler stopped", zap.Int("pending_tasks_dropped", dropped))
			return
		case <-timer.C:
			s.runDue()
		case <-s.wake:
			timer.Stop()
		}
	}
}

// runDue pops and executes every task whose fire time has passed.
func (s *Scheduler) runDue() {
	for {
		s.mu.Lock()
		if len(s.tasks) == 0 || s.tasks[0].at.After(s.clock.Now()) {
			s.mu.Unlock()
			return
		}
		next := s.tasks[0]
		s.tasks = s.tasks[1:]
		s.mu.Unlock()
		next.run()
	}
}

func (s *Scheduler) scheduleAt(at time.Time, name string, fn func()) {
	s.mu.Lock()
	s.tasks = append(s.tasks, task{at: at, name: name, run: fn})
	sort.SliceStable(s.tasks, func(i, j int) bool { return s.tasks[i].at.Before(s.tasks[j].at) })
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// nextRoundID produces the date-prefixed sequence id, resetting the sequence
// at local-date rollover.
func (s *Scheduler) nextRoundID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	date := utils.DateString(s.clock.Now())
	if date != s.currentDate {
		s.currentDate = date
		s.seq = 0
	}
	s.seq++
	return fmt.Sprintf("%s%04d", date, s.seq)
}

func (s *Scheduler) setPhaseView(roundID string, phase domain.Phase, ends time.Duration) {
	now := s.clock.Now()
	s.mu.Lock()
	s.roundID = roundID
	s.phase = phase
	s.phaseStartedAt = now
	s.phaseEndsAt = now.Add(ends)
	s.mu.Unlock()
}

// startRound creates a round with a fresh seed, publishes its commitment
// hash via the game state, and schedules the betting transition.
func (s *Scheduler) startRound() {
	seed, err := fairness.GenerateSeed()
	if err != nil {
		// crypto/rand failing is effectively fatal to fairness; retry
		// shortly rather than open a round without a commitment.
		s.log.Error("seed generation failed, retrying", zap.Error(err))
		s.scheduleAt(s.clock.Now().Add(time.Second), "retry-init", s.startRound)
		return
	}

	id := s.nextRoundID()
	round := &domain.Round{
		ID:        id,
		StartedAt: s.clock.Now(),
		Phase:     domain.PhaseInit,
		Seed:      seed,
		SeedHash:  fairness.HashSeed(seed),
	}
	s.ledger.BeginRound(round)
	s.setPhaseView(id, domain.PhaseInit, s.cfg.InitDuration)
	metrics.RoundsStarted.Inc()

	s.log.Info("round started", zap.String("round", id), zap.String("commitment", round.SeedHash))
	s.publish(domain.RoundEvent{Type: "phase", RoundID: id, Phase: domain.PhaseInit, At: s.clock.Now()})

	s.scheduleAt(s.clock.Now().Add(s.cfg.InitDuration), "betting", s.openBetting)
}

func (s *Scheduler) openBetting() {
	if err := s.ledger.SetPhase(domain.PhaseBetting); err != nil {
		s.log.Error("cannot open betting", zap.Error(err))
		return
	}
	s.setPhaseView(s.currentRoundID(), domain.PhaseBetting, s.cfg.BettingDuration)

	s.log.Info("betting open", zap.String("round", s.currentRoundID()))
	s.publish(domain.RoundEvent{Type: "phase", RoundID: s.currentRoundID(), Phase: domain.PhaseBetting, At: s.clock.Now()})

	s.scheduleAt(s.clock.Now().Add(s.cfg.BettingDuration), "winning", s.freezeBets)
}

// freezeBets enters the winning phase. The reveal fires at a uniformly
// random instant inside the middle 70% of the window; the phase expiry is a
// separate task that completes the round (revealing first if the random
// reveal never ran).
func (s *Scheduler) freezeBets() {
	if err := s.ledger.SetPhase(domain.PhaseWinning); err != nil {
		s.log.Error("cannot freeze bets", zap.Error(err))
		return
	}
	s.setPhaseView(s.currentRoundID(), domain.PhaseWinning, s.cfg.WinningDuration)

	s.log.Info("bets frozen", zap.String("round", s.currentRoundID()))
	s.publish(domain.RoundEvent{Type: "phase", RoundID: s.currentRoundID(), Phase: domain.PhaseWinning, At: s.clock.Now()})

	now := s.clock.Now()
	s.scheduleAt(now.Add(revealDelay(s.cfg.WinningDuration)), "reveal", s.reveal)
	s.scheduleAt(now.Add(s.cfg.WinningDuration), "complete", s.complete)
}

// revealDelay draws the reveal instant from [15%, 85%] of the winning window.
func revealDelay(window time.Duration) time.Duration {
	return time.Duration(0.15*float64(window) + rand.Float64()*0.7*float64(window))
}

// reveal derives the outcome from the committed seed and settles the round.
// Safe to call twice: a revealed round is left alone.
func (s *Scheduler) reveal() {
	round := s.ledger.CurrentRound()
	if round == nil || round.Revealed() {
		return
	}

	result, err := fairness.Derive(round.Seed, round.ID, s.cfg.ColorRanges)
	if err != nil {
		// Misconfigured ranges; leave the round unrevealed and let the
		// completion task archive it after logging loudly.
		s.log.Error("outcome derivation failed", zap.String("round", round.ID), zap.Error(err))
		return
	}

	paid, err := s.ledger.SettleCurrentRound(result.Color, s.clock.Now(), s.cfg.Multipliers)
	if err != nil {
		// A concurrent fallback reveal won the race; nothing to do.
		s.log.Warn("settlement skipped", zap.String("round", round.ID), zap.Error(err))
		return
	}
	metrics.RoundsSettled.Inc()
	metrics.PayoutsTotal.Add(paid)

	s.log.Info("winner revealed",
		zap.String("round", round.ID),
		zap.String("color", string(result.Color)),
		zap.Int("number", result.Number),
		zap.Float64("paid", paid))
	s.publish(domain.RoundEvent{Type: "reveal", RoundID: round.ID, Phase: domain.PhaseWinning, WinningColor: result.Color, At: s.clock.Now()})
}

// complete archives the round and schedules the next one. Revealing here is
// a safety fallback only; the intended path is the randomized reveal task.
func (s *Scheduler) complete() {
	s.reveal()

	archived, err := s.ledger.ArchiveCurrentRound()
	if err != nil {
		s.log.Error("cannot archive round", zap.Error(err))
		return
	}
	s.setPhaseView(archived.ID, domain.PhaseComplete, s.cfg.CompleteDelay)

	s.log.Info("round complete", zap.String("round", archived.ID), zap.Int("bets", len(archived.Bets)))
	s.publish(domain.RoundEvent{Type: "complete", RoundID: archived.ID, Phase: domain.PhaseComplete, WinningColor: archived.WinningColor, At: s.clock.Now()})

	s.scheduleAt(s.clock.Now().Add(s.cfg.CompleteDelay), "init", s.startRound)
}

func (s *Scheduler) currentRoundID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roundID
}

func (s *Scheduler) publish(ev domain.RoundEvent) {
	if s.pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.pub.PublishRoundEvent(ctx, ev); err != nil {
		s.log.Warn("round event publish failed", zap.Error(err))
	}
}

// GameState is the polling view of the current round. The seed stays hidden;
// only its commitment hash is exposed.
type GameState struct {
	RoundID        string        `json:"round_id"`
	Phase          domain.Phase  `json:"phase"`
	PhaseStartedAt time.Time     `json:"phase_started_at"`
	PhaseEndsAt    time.Time     `json:"phase_ends_at"`
	MsRemaining    int64         `json:"ms_remaining"`
	ServerTime     time.Time     `json:"server_time"`
	SeedHash       string        `json:"seed_hash"`
	WinningColor   domain.Color  `json:"winning_color,omitempty"`
	RevealedAt     *time.Time    `json:"revealed_at,omitempty"`
	TotalBets      int           `json:"total_bets"`
}

// GameState assembles the public view of the active round, nil before the
// first round opens.
func (s *Scheduler) GameState() *GameState {
	round := s.ledger.CurrentRound()
	if round == nil {
		return nil
	}

	s.mu.Lock()
	started, ends := s.phaseStartedAt, s.phaseEndsAt
	s.mu.Unlock()

	now := s.clock.Now()
	remaining := ends.Sub(now).Milliseconds()
	if remaining < 0 {
		remaining = 0
	}
	return &GameState{
		RoundID:        round.ID,
		Phase:          round.Phase,
		PhaseStartedAt: started,
		PhaseEndsAt:    ends,
		MsRemaining:    remaining,
		ServerTime:     now,
		SeedHash:       round.SeedHash,
		WinningColor:   round.WinningColor,
		RevealedAt:     round.RevealedAt,
		TotalBets:      len(round.Bets),
	}
}
