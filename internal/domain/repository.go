package domain

import (
	"context"
	"time"
)

// Snapshot is the durable view of the ledger: user records plus the most
// recent completed rounds. It carries no in-flight round.
type Snapshot struct {
	Users  []*User  `json:"users"`
	Rounds []*Round `json:"rounds"`
}

// SnapshotStore persists and restores ledger snapshots. Implementations must
// make Save idempotent and Load tolerant of an empty backing store.
type SnapshotStore interface {
	// Load reads the last saved snapshot. A store with no prior snapshot
	// returns an empty snapshot, not an error.
	Load(ctx context.Context) (*Snapshot, error)

	// Save writes the snapshot, replacing any previous one.
	Save(ctx context.Context, snap *Snapshot) error
}

// RoundEvent is a broadcast notification about round lifecycle progress.
type RoundEvent struct {
	Type         string    `json:"type"` // "phase", "reveal", "complete"
	RoundID      string    `json:"round_id"`
	Phase        Phase     `json:"phase"`
	WinningColor Color     `json:"winning_color,omitempty"`
	At           time.Time `json:"at"`
}

// RoundPublisher fans round events out to interested consumers (e.g. a
// frontend push channel). Publishing is best-effort.
type RoundPublisher interface {
	PublishRoundEvent(ctx context.Context, ev RoundEvent) error
}
