package store

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"colorcrash/internal/domain"
	"colorcrash/internal/settlement"
)

// BeginRound installs a new active round. The previous round must already be
// archived; the scheduler guarantees the ordering.
func (l *Ledger) BeginRound(round *domain.Round) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = round
}

// SetPhase flips the active round's phase. Serialized against bet traffic by
// the ledger mutex.
func (l *Ledger) SetPhase(phase domain.Phase) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return domain.ErrRoundNotFound
	}
	l.current.Phase = phase
	return nil
}

// CurrentRound returns a copy of the active round, nil when none is open.
func (l *Ledger) CurrentRound() *domain.Round {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current.Clone()
}

// PlaceBet debits the user and appends a bet to the active round. All checks
// and the debit happen in one critical section. A user gets one bet per
// round; changes go through UpdateBet.
func (l *Ledger) PlaceBet(userID uuid.UUID, roundID string, amount float64, color domain.Color) (*domain.Bet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if !color.Valid() {
		return nil, domain.ErrUnknownColor
	}
	if l.current == nil || l.current.Phase != domain.PhaseBetting {
		return nil, domain.ErrBettingClosed
	}
	if l.current.ID != roundID {
		return nil, domain.ErrRoundMismatch
	}

	user, ok := l.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if user.Balance < amount {
		return nil, domain.ErrInsufficientFunds
	}
	if l.current.BetByUser(userID) != nil {
		return nil, domain.ErrDuplicateBet
	}

	user.Balance -= amount

	bet := &domain.Bet{
		ID:        uuid.New(),
		RoundID:   l.current.ID,
		UserID:    userID,
		Amount:    amount,
		Color:     color,
		Status:    domain.BetPending,
		CreatedAt: time.Now(),
	}
	l.current.Bets = append(l.current.Bets, bet)

	cp := *bet
	return &cp, nil
}

// UpdateBet changes the amount and/or color of the caller's own bet while
// betting is open. The balance delta (refund or extra charge) is applied
// atomically; an increase beyond the available balance fails with no change.
func (l *Ledger) UpdateBet(betID, userID uuid.UUID, amount float64, color domain.Color) (*domain.Bet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if !color.Valid() {
		return nil, domain.ErrUnknownColor
	}
	if l.current == nil || l.current.Phase != domain.PhaseBetting {
		return nil, domain.ErrBettingClosed
	}

	bet := l.current.BetByID(betID)
	if bet == nil {
		return nil, domain.ErrBetNotFound
	}
	if bet.UserID != userID {
		return nil, domain.ErrNotBetOwner
	}

	user, ok := l.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	delta := amount - bet.Amount
	if delta > 0 && user.Balance < delta {
		return nil, domain.ErrInsufficientFunds
	}

	user.Balance -= delta
	if user.Balance < 0 {
		user.Balance = 0
	}
	bet.Amount = amount
	bet.Color = color

	cp := *bet
	return &cp, nil
}

// RemoveBet withdraws the caller's own bet while betting is open and refunds
// the full amount.
func (l *Ledger) RemoveBet(betID, userID uuid.UUID) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil || l.current.Phase != domain.PhaseBetting {
		return 0, domain.ErrBettingClosed
	}

	bet := l.current.BetByID(betID)
	if bet == nil {
		return 0, domain.ErrBetNotFound
	}
	if bet.UserID != userID {
		return 0, domain.ErrNotBetOwner
	}

	user, ok := l.users[userID]
	if !ok {
		return 0, domain.ErrUserNotFound
	}

	user.Balance += bet.Amount
	refund := bet.Amount

	bets := l.current.Bets
	for i, b := range bets {
		if b.ID == betID {
			l.current.Bets = append(bets[:i], bets[i+1:]...)
			break
		}
	}
	return refund, nil
}

// SettleCurrentRound records the revealed outcome and pays winners. It runs
// at most once per round: a round whose winning color is already set is
// rejected. A winner whose user record is missing is skipped with a log line;
// the remaining credits still apply.
func (l *Ledger) SettleCurrentRound(winning domain.Color, revealedAt time.Time, multipliers map[domain.Color]float64) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return 0, domain.ErrRoundNotFound
	}
	if l.current.Revealed() {
		return 0, domain.ErrAlreadySettled
	}

	l.current.WinningColor = winning
	l.current.RevealedAt = &revealedAt

	credits := settlement.Apply(l.current, winning, multipliers)
	var paid float64
	for _, c := range credits {
		user, ok := l.users[c.UserID]
		if !ok {
			l.log.Warn("settlement credit skipped, user missing",
				zap.String("round", l.current.ID),
				zap.String("user", c.UserID.String()),
				zap.Float64("amount", c.Amount))
			continue
		}
		user.Balance += c.Amount
		paid += c.Amount
	}
	return paid, nil
}

// ArchiveCurrentRound marks the active round complete and moves a copy into
// history, trimming to HistoryLimit. The archived copy is returned.
func (l *Ledger) ArchiveCurrentRound() (*domain.Round, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return nil, domain.ErrRoundNotFound
	}
	l.current.Phase = domain.PhaseComplete

	archived := l.current.Clone()
	l.history = append(l.history, archived)
	if len(l.history) > HistoryLimit {
		l.history = l.history[len(l.history)-HistoryLimit:]
	}
	return archived.Clone(), nil
}

// RoundByID finds the active round or a historical one.
func (l *Ledger) RoundByID(id string) (*domain.Round, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current != nil && l.current.ID == id {
		return l.current.Clone(), nil
	}
	for i := len(l.history) - 1; i >= 0; i-- {
		if l.history[i].ID == id {
			return l.history[i].Clone(), nil
		}
	}
	return nil, domain.ErrRoundNotFound
}

// History returns up to limit completed rounds, newest first.
func (l *Ledger) History(limit int) []*domain.Round {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit <= 0 || limit > len(l.history) {
		limit = len(l.history)
	}
	out := make([]*domain.Round, 0, limit)
	for i := len(l.history) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, l.history[i].Clone())
	}
	return out
}

// UserBets returns up to limit of a user's bets, current round first, then
// history newest first.
func (l *Ledger) UserBets(userID uuid.UUID, limit int) []*domain.Bet {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []*domain.Bet
	appendMatching := func(r *domain.Round) {
		for _, b := range r.Bets {
			if b.UserID == userID && len(out) < limit {
				cp := *b
				out = append(out, &cp)
			}
		}
	}
	if l.current != nil {
		appendMatching(l.current)
	}
	for i := len(l.history) - 1; i >= 0 && len(out) < limit; i-- {
		appendMatching(l.history[i])
	}
	return out
}

// CurrentBetFor returns the user's bet in the active round, if any.
func (l *Ledger) CurrentBetFor(userID uuid.UUID) (*domain.Bet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return nil, domain.ErrRoundNotFound
	}
	bet := l.current.BetByUser(userID)
	if bet == nil {
		return nil, domain.ErrBetNotFound
	}
	cp := *bet
	return &cp, nil
}

// RecentBets returns up to limit bets across the active round and history,
// newest first.
func (l *Ledger) RecentBets(limit int) []*domain.Bet {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []*domain.Bet
	collect := func(r *domain.Round) {
		for i := len(r.Bets) - 1; i >= 0 && len(out) < limit; i-- {
			cp := *r.Bets[i]
			out = append(out, &cp)
		}
	}
	if l.current != nil {
		collect(l.current)
	}
	for i := len(l.history) - 1; i >= 0 && len(out) < limit; i-- {
		collect(l.history[i])
	}
	return out
}

// TotalBets reports the number of bets in the active round.
func (l *Ledger) TotalBets() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return 0
	}
	return len(l.current.Bets)
}
