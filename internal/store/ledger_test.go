package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"colorcrash/internal/domain"
)

var testMultipliers = map[domain.Color]float64{
	domain.ColorRed:   1.98,
	domain.ColorGreen: 1.98,
	domain.ColorBlue:  5,
}

func newTestLedger(t *testing.T) (*Ledger, *domain.User) {
	t.Helper()
	l := NewLedger(nil)
	user := &domain.User{
		ID:        uuid.New(),
		Username:  "player_0001",
		Phone:     "5550000001",
		Balance:   1000,
		CreatedAt: time.Now(),
	}
	if err := l.CreateUser(user); err != nil {
		t.Fatal(err)
	}
	return l, user
}

func openBettingRound(l *Ledger, id string) {
	l.BeginRound(&domain.Round{
		ID:        id,
		StartedAt: time.Now(),
		Phase:     domain.PhaseInit,
		Seed:      "seed-" + id,
		SeedHash:  "hash-" + id,
	})
	l.SetPhase(domain.PhaseBetting)
}

func TestPlaceBetDebitsAndAppends(t *testing.T) {
	l, user := newTestLedger(t)
	openBettingRound(l, "202501010001")

	bet, err := l.PlaceBet(user.ID, "202501010001", 50, domain.ColorRed)
	if err != nil {
		t.Fatal(err)
	}
	if bet.Status != domain.BetPending || bet.Amount != 50 {
		t.Fatalf("unexpected bet: %+v", bet)
	}

	after, _ := l.UserByID(user.ID)
	if after.Balance != 950 {
		t.Fatalf("balance = %v, want 950", after.Balance)
	}
	if l.TotalBets() != 1 {
		t.Fatalf("total bets = %d, want 1", l.TotalBets())
	}
}

func TestPlaceBetRejections(t *testing.T) {
	l, user := newTestLedger(t)
	openBettingRound(l, "202501010001")

	cases := []struct {
		name    string
		userID  uuid.UUID
		roundID string
		amount  float64
		color   domain.Color
		phase   domain.Phase
		want    error
	}{
		{"zero amount", user.ID, "202501010001", 0, domain.ColorRed, domain.PhaseBetting, domain.ErrInvalidAmount},
		{"unknown color", user.ID, "202501010001", 50, domain.Color("purple"), domain.PhaseBetting, domain.ErrUnknownColor},
		{"round mismatch", user.ID, "202401010001", 50, domain.ColorRed, domain.PhaseBetting, domain.ErrRoundMismatch},
		{"unknown user", uuid.New(), "202501010001", 50, domain.ColorRed, domain.PhaseBetting, domain.ErrUserNotFound},
		{"insufficient funds", user.ID, "202501010001", 5000, domain.ColorRed, domain.PhaseBetting, domain.ErrInsufficientFunds},
		{"winning phase", user.ID, "202501010001", 50, domain.ColorRed, domain.PhaseWinning, domain.ErrBettingClosed},
		{"complete phase", user.ID, "202501010001", 50, domain.ColorRed, domain.PhaseComplete, domain.ErrBettingClosed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l.SetPhase(tc.phase)
			defer l.SetPhase(domain.PhaseBetting)

			_, err := l.PlaceBet(tc.userID, tc.roundID, tc.amount, tc.color)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}

			after, _ := l.UserByID(user.ID)
			if after.Balance != 1000 {
				t.Fatalf("rejected bet changed balance: %v", after.Balance)
			}
		})
	}
}

func TestPlaceBetRejectsSecondBetSameRound(t *testing.T) {
	l, user := newTestLedger(t)
	openBettingRound(l, "202501010001")

	if _, err := l.PlaceBet(user.ID, "202501010001", 50, domain.ColorRed); err != nil {
		t.Fatal(err)
	}
	_, err := l.PlaceBet(user.ID, "202501010001", 20, domain.ColorBlue)
	if !errors.Is(err, domain.ErrDuplicateBet) {
		t.Fatalf("err = %v, want ErrDuplicateBet", err)
	}

	after, _ := l.UserByID(user.ID)
	if after.Balance != 950 {
		t.Fatalf("balance = %v, want 950 (only the first debit)", after.Balance)
	}
}

func TestUpdateBetAppliesDelta(t *testing.T) {
	l, user := newTestLedger(t)
	openBettingRound(l, "202501010001")

	bet, err := l.PlaceBet(user.ID, "202501010001", 50, domain.ColorRed)
	if err != nil {
		t.Fatal(err)
	}

	// Increase: charge the difference.
	if _, err := l.UpdateBet(bet.ID, user.ID, 80, domain.ColorBlue); err != nil {
		t.Fatal(err)
	}
	after, _ := l.UserByID(user.ID)
	if after.Balance != 920 {
		t.Fatalf("balance = %v, want 920", after.Balance)
	}

	// Decrease: refund the difference.
	updated, err := l.UpdateBet(bet.ID, user.ID, 30, domain.ColorGreen)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Amount != 30 || updated.Color != domain.ColorGreen {
		t.Fatalf("unexpected bet after update: %+v", updated)
	}
	after, _ = l.UserByID(user.ID)
	if after.Balance != 970 {
		t.Fatalf("balance = %v, want 970", after.Balance)
	}

	// Increase beyond balance fails atomically.
	_, err = l.UpdateBet(bet.ID, user.ID, 30+after.Balance+1, domain.ColorGreen)
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	unchanged, _ := l.CurrentBetFor(user.ID)
	if unchanged.Amount != 30 {
		t.Fatalf("failed update mutated bet: %+v", unchanged)
	}
}

func TestUpdateBetOwnership(t *testing.T) {
	l, user := newTestLedger(t)
	openBettingRound(l, "202501010001")

	other := &domain.User{ID: uuid.New(), Phone: "5550000002", Balance: 500}
	if err := l.CreateUser(other); err != nil {
		t.Fatal(err)
	}

	bet, err := l.PlaceBet(user.ID, "202501010001", 50, domain.ColorRed)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := l.UpdateBet(bet.ID, other.ID, 60, domain.ColorRed); !errors.Is(err, domain.ErrNotBetOwner) {
		t.Fatalf("err = %v, want ErrNotBetOwner", err)
	}
	if _, err := l.RemoveBet(bet.ID, other.ID); !errors.Is(err, domain.ErrNotBetOwner) {
		t.Fatalf("err = %v, want ErrNotBetOwner", err)
	}
}

func TestRemoveBetRefunds(t *testing.T) {
	l, user := newTestLedger(t)
	openBettingRound(l, "202501010001")

	bet, err := l.PlaceBet(user.ID, "202501010001", 50, domain.ColorRed)
	if err != nil {
		t.Fatal(err)
	}

	refund, err := l.RemoveBet(bet.ID, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if refund != 50 {
		t.Fatalf("refund = %v, want 50", refund)
	}
	after, _ := l.UserByID(user.ID)
	if after.Balance != 1000 {
		t.Fatalf("balance = %v, want 1000", after.Balance)
	}
	if l.TotalBets() != 0 {
		t.Fatalf("bet not removed, total = %d", l.TotalBets())
	}

	// Frozen phase: withdrawal rejected.
	if _, err := l.PlaceBet(user.ID, "202501010001", 50, domain.ColorRed); err != nil {
		t.Fatal(err)
	}
	l.SetPhase(domain.PhaseWinning)
	cur := l.CurrentRound()
	if _, err := l.RemoveBet(cur.Bets[0].ID, user.ID); !errors.Is(err, domain.ErrBettingClosed) {
		t.Fatalf("err = %v, want ErrBettingClosed", err)
	}
}

func TestSettleCurrentRoundPaysWinnersOnce(t *testing.T) {
	l, user := newTestLedger(t)
	openBettingRound(l, "202501010001")

	loser := &domain.User{ID: uuid.New(), Phone: "5550000002", Balance: 300}
	if err := l.CreateUser(loser); err != nil {
		t.Fatal(err)
	}

	if _, err := l.PlaceBet(user.ID, "202501010001", 50, domain.ColorRed); err != nil {
		t.Fatal(err)
	}
	if _, err := l.PlaceBet(loser.ID, "202501010001", 100, domain.ColorBlue); err != nil {
		t.Fatal(err)
	}
	l.SetPhase(domain.PhaseWinning)

	paid, err := l.SettleCurrentRound(domain.ColorRed, time.Now(), testMultipliers)
	if err != nil {
		t.Fatal(err)
	}
	if paid != 99 {
		t.Fatalf("paid = %v, want 99", paid)
	}

	winner, _ := l.UserByID(user.ID)
	if winner.Balance != 950+99 {
		t.Fatalf("winner balance = %v, want 1049", winner.Balance)
	}
	lost, _ := l.UserByID(loser.ID)
	if lost.Balance != 200 {
		t.Fatalf("loser balance = %v, want 200", lost.Balance)
	}

	// Second settlement attempt is rejected outright.
	if _, err := l.SettleCurrentRound(domain.ColorRed, time.Now(), testMultipliers); !errors.Is(err, domain.ErrAlreadySettled) {
		t.Fatalf("err = %v, want ErrAlreadySettled", err)
	}
	winner, _ = l.UserByID(user.ID)
	if winner.Balance != 1049 {
		t.Fatalf("double settlement changed balance: %v", winner.Balance)
	}
}

func TestSettleSkipsMissingUser(t *testing.T) {
	l, user := newTestLedger(t)
	openBettingRound(l, "202501010001")

	if _, err := l.PlaceBet(user.ID, "202501010001", 50, domain.ColorRed); err != nil {
		t.Fatal(err)
	}

	// Inject a bet whose owner does not exist; settlement must pay the rest.
	l.mu.Lock()
	l.current.Bets = append(l.current.Bets, &domain.Bet{
		ID:      uuid.New(),
		RoundID: l.current.ID,
		UserID:  uuid.New(),
		Amount:  40,
		Color:   domain.ColorRed,
		Status:  domain.BetPending,
	})
	l.mu.Unlock()
	l.SetPhase(domain.PhaseWinning)

	paid, err := l.SettleCurrentRound(domain.ColorRed, time.Now(), testMultipliers)
	if err != nil {
		t.Fatal(err)
	}
	if paid != 99 {
		t.Fatalf("paid = %v, want 99 (ghost winner skipped)", paid)
	}
}

func TestArchiveTrimsHistory(t *testing.T) {
	l, _ := newTestLedger(t)

	for i := 0; i < HistoryLimit+10; i++ {
		openBettingRound(l, fmt.Sprintf("20250101%04d", i+1))
		if _, err := l.ArchiveCurrentRound(); err != nil {
			t.Fatal(err)
		}
	}

	history := l.History(0)
	if len(history) != HistoryLimit {
		t.Fatalf("history = %d rounds, want %d", len(history), HistoryLimit)
	}
	if history[0].ID != fmt.Sprintf("20250101%04d", HistoryLimit+10) {
		t.Fatalf("newest archived round = %s", history[0].ID)
	}
	if history[0].Phase != domain.PhaseComplete {
		t.Fatalf("archived round phase = %s", history[0].Phase)
	}
}

func TestSnapshotRestoreRoundtrip(t *testing.T) {
	l, user := newTestLedger(t)
	openBettingRound(l, "202501010001")
	if _, err := l.PlaceBet(user.ID, "202501010001", 50, domain.ColorRed); err != nil {
		t.Fatal(err)
	}
	l.SetPhase(domain.PhaseWinning)
	if _, err := l.SettleCurrentRound(domain.ColorRed, time.Now(), testMultipliers); err != nil {
		t.Fatal(err)
	}
	if _, err := l.ArchiveCurrentRound(); err != nil {
		t.Fatal(err)
	}

	snap := l.Snapshot()

	restored := NewLedger(nil)
	restored.Restore(snap)

	u, err := restored.UserByID(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if u.Balance != 1049 {
		t.Fatalf("restored balance = %v, want 1049", u.Balance)
	}
	r, err := restored.RoundByID("202501010001")
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Bets) != 1 || r.Bets[0].Status != domain.BetWon {
		t.Fatalf("restored round lost bet state: %+v", r.Bets)
	}
}

// Many goroutines hammer the ledger while the phase flips; afterwards the
// books must balance and no balance may be negative.
func TestConcurrentBetsConserveBalance(t *testing.T) {
	l := NewLedger(nil)

	const players = 20
	ids := make([]uuid.UUID, players)
	for i := range ids {
		ids[i] = uuid.New()
		err := l.CreateUser(&domain.User{
			ID:      ids[i],
			Phone:   fmt.Sprintf("555%07d", i),
			Balance: 100,
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	openBettingRound(l, "202501010001")

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(userID uuid.UUID) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				bet, err := l.PlaceBet(userID, "202501010001", 30, domain.ColorRed)
				if err != nil {
					continue
				}
				if j%2 == 0 {
					l.RemoveBet(bet.ID, userID)
				}
			}
		}(id)
	}
	// Flip the phase midway through the traffic.
	go l.SetPhase(domain.PhaseWinning)
	wg.Wait()

	l.SetPhase(domain.PhaseWinning)
	round := l.CurrentRound()

	var reserved float64
	for _, b := range round.Bets {
		reserved += b.Amount
	}
	var balances float64
	for _, id := range ids {
		u, err := l.UserByID(id)
		if err != nil {
			t.Fatal(err)
		}
		if u.Balance < 0 {
			t.Fatalf("negative balance for %s: %v", id, u.Balance)
		}
		balances += u.Balance
	}
	if total := reserved + balances; total != players*100 {
		t.Fatalf("money not conserved: reserved %v + balances %v = %v, want %v",
			reserved, balances, total, players*100)
	}
}
