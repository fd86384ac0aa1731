package repository

import (
	"time"

	"github.com/google/uuid"

	"colorcrash/internal/domain"
)

// The domain structs hide the password hash and the round seed from JSON so
// they can never leak through an API response. Persistence needs both, so
// snapshots are written through these record types instead.

type userRecord struct {
	ID              uuid.UUID  `json:"id"`
	Username        string     `json:"username"`
	Phone           string     `json:"phone"`
	PasswordHash    string     `json:"password_hash"`
	Name            string     `json:"name"`
	Balance         float64    `json:"balance"`
	ReferralCode    string     `json:"referral_code"`
	ReferredBy      *uuid.UUID `json:"referred_by,omitempty"`
	ReferralCount   int        `json:"referral_count"`
	IsPhoneVerified bool       `json:"is_phone_verified"`
	CreatedAt       time.Time  `json:"created_at"`
}

type roundRecord struct {
	ID           string        `json:"id"`
	StartedAt    time.Time     `json:"started_at"`
	Phase        domain.Phase  `json:"phase"`
	Seed         string        `json:"seed"`
	SeedHash     string        `json:"seed_hash"`
	WinningColor domain.Color  `json:"winning_color,omitempty"`
	RevealedAt   *time.Time    `json:"revealed_at,omitempty"`
	Bets         []*domain.Bet `json:"bets"`
}

type snapshotRecord struct {
	Users  []userRecord  `json:"users"`
	Rounds []roundRecord `json:"rounds"`
}

func toRecord(snap *domain.Snapshot) snapshotRecord {
	rec := snapshotRecord{
		Users:  make([]userRecord, len(snap.Users)),
		Rounds: make([]roundRecord, len(snap.Rounds)),
	}
	for i, u := range snap.Users {
		rec.Users[i] = userRecord{
			ID:              u.ID,
			Username:        u.Username,
			Phone:           u.Phone,
			PasswordHash:    u.PasswordHash,
			Name:            u.Name,
			Balance:         u.Balance,
			ReferralCode:    u.ReferralCode,
			ReferredBy:      u.ReferredBy,
			ReferralCount:   u.ReferralCount,
			IsPhoneVerified: u.IsPhoneVerified,
			CreatedAt:       u.CreatedAt,
		}
	}
	for i, r := range snap.Rounds {
		rec.Rounds[i] = roundRecord{
			ID:           r.ID,
			StartedAt:    r.StartedAt,
			Phase:        r.Phase,
			Seed:         r.Seed,
			SeedHash:     r.SeedHash,
			WinningColor: r.WinningColor,
			RevealedAt:   r.RevealedAt,
			Bets:         r.Bets,
		}
	}
	return rec
}

func fromRecord(rec *snapshotRecord) *domain.Snapshot {
	snap := &domain.Snapshot{
		Users:  make([]*domain.User, len(rec.Users)),
		Rounds: make([]*domain.Round, len(rec.Rounds)),
	}
	for i, u := range rec.Users {
		snap.Users[i] = &domain.User{
			ID:              u.ID,
			Username:        u.Username,
			Phone:           u.Phone,
			PasswordHash:    u.PasswordHash,
			Name:            u.Name,
			Balance:         u.Balance,
			ReferralCode:    u.ReferralCode,
			ReferredBy:      u.ReferredBy,
			ReferralCount:   u.ReferralCount,
			IsPhoneVerified: u.IsPhoneVerified,
			CreatedAt:       u.CreatedAt,
		}
	}
	for i, r := range rec.Rounds {
		snap.Rounds[i] = &domain.Round{
			ID:           r.ID,
			StartedAt:    r.StartedAt,
			Phase:        r.Phase,
			Seed:         r.Seed,
			SeedHash:     r.SeedHash,
			WinningColor: r.WinningColor,
			RevealedAt:   r.RevealedAt,
			Bets:         r.Bets,
		}
	}
	return snap
}
