// Package remote implements the authoritative Postgres-backed store and
// the background worker that drains the local sync outbox into it.
// The remote side merges with greatest-wins semantics on monotonic
// fields, so replaying a stale event is harmless.
package remote

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wordkite/wordkite/internal/domain"
)

// Store talks to the authoritative Postgres database.
type Store struct {
	pool *pgxpool.Pool
}

// New connects a pool to the given DSN and ensures the schema exists.
// The pool connects lazily; an unreachable backend at boot is treated
// as a transient failure, not a startup error.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	s := &Store{pool: pool}
	// Best-effort: an unreachable backend here surfaces later through
	// Apply, which the outbox retries.
	_ = s.ensureSchema(ctx)
	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Ping checks reachability.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	return nil
}

// ensureSchema creates the three tables idempotently.
func (s *Store) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS wk_completions (
			player_id    TEXT NOT NULL,
			activity_id  TEXT NOT NULL,
			completed_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (player_id, activity_id)
		)`,
		`CREATE TABLE IF NOT EXISTS wk_streaks (
			player_id            TEXT PRIMARY KEY,
			current_streak       INTEGER NOT NULL,
			longest_streak       INTEGER NOT NULL,
			last_activity_date   TEXT NOT NULL DEFAULT '',
			streak_freezes       INTEGER NOT NULL,
			last_freeze_use_date TEXT NOT NULL DEFAULT '',
			updated_at           TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS wk_progression (
			player_id                 TEXT PRIMARY KEY,
			experience                BIGINT NOT NULL,
			level                     INTEGER NOT NULL,
			gold_balance              BIGINT NOT NULL,
			gem_balance               BIGINT NOT NULL,
			lifetime_completed_count  BIGINT NOT NULL,
			last_milestone_awarded_at BIGINT NOT NULL,
			updated_at                TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure remote schema: %w", err)
		}
	}
	return nil
}

// Apply merges one sync event in a single transaction: conditional
// completion insert, then greatest-wins upserts of the streak and
// progression rows. Last write wins on last_activity_date — two-device
// races are a documented limitation, not an error.
func (s *Store) Apply(ctx context.Context, ev domain.SyncEvent) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin: %v", domain.ErrRemoteUnavailable, err)
	}
	defer tx.Rollback(ctx)

	if ev.Completion != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO wk_completions (player_id, activity_id, completed_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (player_id, activity_id) DO NOTHING`,
			ev.Completion.PlayerID, ev.Completion.ActivityID, ev.Completion.CompletedAt,
		)
		if err != nil {
			return fmt.Errorf("upsert completion: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO wk_streaks
			(player_id, current_streak, longest_streak, last_activity_date,
			 streak_freezes, last_freeze_use_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (player_id) DO UPDATE SET
			current_streak       = excluded.current_streak,
			longest_streak       = GREATEST(wk_streaks.longest_streak, excluded.longest_streak),
			last_activity_date   = excluded.last_activity_date,
			streak_freezes       = excluded.streak_freezes,
			last_freeze_use_date = excluded.last_freeze_use_date,
			updated_at           = excluded.updated_at`,
		ev.PlayerID,
		ev.Streak.CurrentStreak,
		ev.Streak.LongestStreak,
		dateString(ev.Streak.LastActivityDate),
		ev.Streak.StreakFreezes,
		dateString(ev.Streak.LastFreezeUseDate),
		ev.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("upsert streak: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO wk_progression
			(player_id, experience, level, gold_balance, gem_balance,
			 lifetime_completed_count, last_milestone_awarded_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (player_id) DO UPDATE SET
			experience                = GREATEST(wk_progression.experience, excluded.experience),
			level                     = GREATEST(wk_progression.level, excluded.level),
			gold_balance              = GREATEST(wk_progression.gold_balance, excluded.gold_balance),
			gem_balance               = GREATEST(wk_progression.gem_balance, excluded.gem_balance),
			lifetime_completed_count  = GREATEST(wk_progression.lifetime_completed_count, excluded.lifetime_completed_count),
			last_milestone_awarded_at = GREATEST(wk_progression.last_milestone_awarded_at, excluded.last_milestone_awarded_at),
			updated_at                = excluded.updated_at`,
		ev.PlayerID,
		ev.Progression.Experience,
		ev.Progression.Level,
		ev.Progression.GoldBalance,
		ev.Progression.GemBalance,
		ev.Progression.LifetimeCompletedCount,
		ev.Progression.LastMilestoneAwardedAt,
		ev.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("upsert progression: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrRemoteUnavailable, err)
	}
	return nil
}

// CompletionExists answers the registry's existence query against the
// authoritative table.
func (s *Store) CompletionExists(ctx context.Context, playerID, activityID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM wk_completions WHERE player_id = $1 AND activity_id = $2
		)`, playerID, activityID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("completion exists: %w", err)
	}
	return exists, nil
}

// FetchProgression point-reads a progression row, or nil if absent.
// Used by reconciliation tooling; gameplay reads are local-store-wins.
func (s *Store) FetchProgression(ctx context.Context, playerID string) (*domain.ProgressionState, error) {
	var p domain.ProgressionState
	err := s.pool.QueryRow(ctx, `
		SELECT experience, level, gold_balance, gem_balance,
		       lifetime_completed_count, last_milestone_awarded_at
		FROM wk_progression WHERE player_id = $1`, playerID,
	).Scan(&p.Experience, &p.Level, &p.GoldBalance, &p.GemBalance,
		&p.LifetimeCompletedCount, &p.LastMilestoneAwardedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch progression: %w", err)
	}
	return &p, nil
}

func dateString(d domain.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}
