// Package domain — progression engine types.
// The engine tracks daily streaks (with freeze grace tokens), idempotent
// activity rewards, milestone bonuses, and level/XP progression.
package domain

import (
	"strconv"
	"time"
)

// ─── Streak Types ───────────────────────────────────────────────────────────

// StreakState is the per-player streak record. Mutated only by the
// streak ledger's Advance transition and by freeze grants.
type StreakState struct {
	LastActivityDate  Date `json:"last_activity_date"`
	CurrentStreak     int  `json:"current_streak"`
	LongestStreak     int  `json:"longest_streak"` // invariant: >= CurrentStreak, never decreases
	StreakFreezes     int  `json:"streak_freezes"` // consumable grace tokens
	LastFreezeUseDate Date `json:"last_freeze_use_date"`
}

// CompletedToday reports whether an activity was already counted for the
// given day. Always derived — never cached across a day boundary.
func (s StreakState) CompletedToday(today Date) bool {
	return !s.LastActivityDate.IsZero() && s.LastActivityDate.Equal(today)
}

// ─── Activity Types ─────────────────────────────────────────────────────────

// ActivityKind categorizes learning activities by difficulty tier.
type ActivityKind string

const (
	ActivityQuiz     ActivityKind = "quiz"     // easy tier
	ActivityMatching ActivityKind = "matching" // medium tier
	ActivityReading  ActivityKind = "reading"  // hard tier
)

// ActivityID builds the canonical activity identifier from its parts:
// kind, lesson/page identifier, and round number.
func ActivityID(kind ActivityKind, lesson string, round int) string {
	return string(kind) + ":" + lesson + ":" + strconv.Itoa(round)
}

// CompletionRecord marks one first-time completion of an activity.
// At most one record exists per (player, activity) pair.
type CompletionRecord struct {
	PlayerID    string    `json:"player_id"`
	ActivityID  string    `json:"activity_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// ─── Reward Types ───────────────────────────────────────────────────────────

// Reward is the experience/currency tuple granted for a completion.
type Reward struct {
	XP       int64 `json:"xp"`
	Currency int64 `json:"currency"`
}

// Currency names a credit-only balance managed by the engine.
type Currency string

const (
	CurrencyGold Currency = "gold"
	CurrencyGems Currency = "gems"
)

// ─── Progression Types ──────────────────────────────────────────────────────

// ProgressionState is the per-player level/XP/balance record.
// Experience, Level, LifetimeCompletedCount, and LastMilestoneAwardedAt
// are monotonic under engine operations; balances only receive credits.
type ProgressionState struct {
	Experience             int64 `json:"experience"`
	Level                  int   `json:"level"`
	GoldBalance            int64 `json:"gold_balance"`
	GemBalance             int64 `json:"gem_balance"`
	LifetimeCompletedCount int64 `json:"lifetime_completed_count"`
	LastMilestoneAwardedAt int64 `json:"last_milestone_awarded_at"`
}

// NewProgressionState returns the lazily-created default record.
func NewProgressionState() ProgressionState {
	return ProgressionState{Level: 1}
}

// ─── Completion Result ──────────────────────────────────────────────────────

// CompletionResult is the summary handed back to the caller after a
// completed activity, ready to render as celebration feedback.
type CompletionResult struct {
	PlayerID         string `json:"player_id"`
	ActivityID       string `json:"activity_id"`
	FirstCompletion  bool   `json:"first_completion"`
	XPAwarded        int64  `json:"xp_awarded"`
	CurrencyAwarded  int64  `json:"currency_awarded"`
	LeveledUp        bool   `json:"leveled_up"`
	NewLevel         int    `json:"new_level"`
	StreakIncreased  bool   `json:"streak_increased"`
	NewStreakValue   int    `json:"new_streak_value"`
	FreezesConsumed  int    `json:"freezes_consumed"`
	MilestoneAwarded bool   `json:"milestone_awarded"`
	MilestoneBonus   int64  `json:"milestone_bonus"`
	PendingSync      bool   `json:"pending_sync"`
}

// ─── Currency Ledger ────────────────────────────────────────────────────────

// LedgerEntry is one append-only currency credit, kept for audit.
type LedgerEntry struct {
	ID        int64     `json:"id"`
	PlayerID  string    `json:"player_id"`
	Currency  Currency  `json:"currency"`
	Amount    int64     `json:"amount"`
	Reason    string    `json:"reason"`
	Balance   int64     `json:"balance"` // balance after this credit
	CreatedAt time.Time `json:"created_at"`
}
