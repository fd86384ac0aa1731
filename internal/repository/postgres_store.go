package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"colorcrash/internal/domain"
)

// PostgresStore persists ledger snapshots in PostgreSQL. Users are upserted
// by id; rounds are upserted by round id with their bets as a JSONB column.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Load reads every user and the most recent completed rounds.
func (s *PostgresStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{}

	rows, err := s.db.Query(ctx, `
		SELECT id, username, phone, password_hash, name, balance,
		       referral_code, referred_by, referral_count, is_phone_verified, created_at
		FROM users
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Phone, &u.PasswordHash, &u.Name,
			&u.Balance, &u.ReferralCode, &u.ReferredBy, &u.ReferralCount,
			&u.IsPhoneVerified, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		snap.Users = append(snap.Users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	roundRows, err := s.db.Query(ctx, `
		SELECT id, started_at, phase, seed, seed_hash, winning_color, revealed_at, bets
		FROM rounds
		ORDER BY started_at DESC
		LIMIT 100
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load rounds: %w", err)
	}
	defer roundRows.Close()

	for roundRows.Next() {
		var r domain.Round
		var betsJSON []byte
		if err := roundRows.Scan(&r.ID, &r.StartedAt, &r.Phase, &r.Seed,
			&r.SeedHash, &r.WinningColor, &r.RevealedAt, &betsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		if err := json.Unmarshal(betsJSON, &r.Bets); err != nil {
			return nil, fmt.Errorf("failed to decode bets for round %s: %w", r.ID, err)
		}
		snap.Rounds = append(snap.Rounds, &r)
	}
	if err := roundRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rounds: %w", err)
	}

	// Load returns rounds oldest first to match the archive order.
	for i, j := 0, len(snap.Rounds)-1; i < j; i, j = i+1, j-1 {
		snap.Rounds[i], snap.Rounds[j] = snap.Rounds[j], snap.Rounds[i]
	}
	return snap, nil
}

// Save writes the snapshot in a single transaction.
func (s *PostgresStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, u := range snap.Users {
		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, username, phone, password_hash, name, balance,
			                   referral_code, referred_by, referral_count, is_phone_verified, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO UPDATE SET
				balance = EXCLUDED.balance,
				referral_count = EXCLUDED.referral_count,
				is_phone_verified = EXCLUDED.is_phone_verified,
				name = EXCLUDED.name
		`, u.ID, u.Username, u.Phone, u.PasswordHash, u.Name, u.Balance,
			u.ReferralCode, u.ReferredBy, u.ReferralCount, u.IsPhoneVerified, u.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert user %s: %w", u.ID, err)
		}
	}

	for _, r := range snap.Rounds {
		bets := r.Bets
		if bets == nil {
			bets = []*domain.Bet{}
		}
		betsJSON, err := json.Marshal(bets)
		if err != nil {
			return fmt.Errorf("failed to encode bets for round %s: %w", r.ID, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO rounds (id, started_at, phase, seed, seed_hash, winning_color, revealed_at, bets)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				phase = EXCLUDED.phase,
				winning_color = EXCLUDED.winning_color,
				revealed_at = EXCLUDED.revealed_at,
				bets = EXCLUDED.bets
		`, r.ID, r.StartedAt, r.Phase, r.Seed, r.SeedHash, r.WinningColor, r.RevealedAt, betsJSON)
		if err != nil {
			return fmt.Errorf("failed to upsert round %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}
