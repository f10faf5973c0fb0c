package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wordkite/wordkite/internal/app/progression"
	"github.com/wordkite/wordkite/internal/app/wallet"
	"github.com/wordkite/wordkite/internal/domain"
	"github.com/wordkite/wordkite/internal/infra/metrics"
	"github.com/wordkite/wordkite/internal/infra/sqlite"
)

// inlinePushTimeout bounds the synchronous remote push attempt; past it
// the event stays in the outbox and the background syncer takes over.
const inlinePushTimeout = 2 * time.Second

// Config tunes milestone accounting.
type Config struct {
	MilestoneInterval  int64 // every Nth lifetime completion
	MilestoneBonusGems int64 // gems per crossed threshold
}

// DefaultConfig returns the production milestone policy.
func DefaultConfig() Config {
	return Config{
		MilestoneInterval:  progression.DefaultMilestoneInterval,
		MilestoneBonusGems: progression.DefaultMilestoneBonus,
	}
}

// Service is the completion orchestrator — the only component with side
// effects. It owns the four ledgers; all reads for display go through
// snapshot copies, never references into in-flight mutation state.
type Service struct {
	db       *sqlite.DB
	registry *Registry
	wallet   *wallet.Service
	remote   domain.RemoteStore // nil when remote sync is disabled
	clock    domain.Clock
	cfg      Config

	mu      sync.Mutex
	players map[string]*sync.Mutex
}

// NewService wires the orchestrator. remote may be nil (offline mode).
func NewService(db *sqlite.DB, remote domain.RemoteStore, clock domain.Clock, cfg Config) *Service {
	if cfg.MilestoneInterval <= 0 {
		cfg.MilestoneInterval = progression.DefaultMilestoneInterval
	}
	if cfg.MilestoneBonusGems <= 0 {
		cfg.MilestoneBonusGems = progression.DefaultMilestoneBonus
	}
	return &Service{
		db:       db,
		registry: NewRegistry(db),
		wallet:   wallet.NewService(db),
		remote:   remote,
		clock:    clock,
		cfg:      cfg,
		players:  make(map[string]*sync.Mutex),
	}
}

// playerLock returns the serialization point for one player. Mutations
// for different players never block each other.
func (s *Service) playerLock(playerID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.players[playerID]
	if !ok {
		l = &sync.Mutex{}
		s.players[playerID] = l
	}
	return l
}

// CompleteActivity processes one completed learning activity:
// idempotency check, reward computation, streak advance, milestone
// check, experience application, persistence, result summary. Local
// persistence is authoritative for the caller; a failed remote push is
// reported via PendingSync, never as an error.
func (s *Service) CompleteActivity(ctx context.Context, playerID, activityID string, kind domain.ActivityKind) (domain.CompletionResult, error) {
	if playerID == "" {
		return domain.CompletionResult{}, domain.ErrEmptyPlayerID
	}
	if activityID == "" {
		return domain.CompletionResult{}, domain.ErrEmptyActivityID
	}

	lock := s.playerLock(playerID)
	lock.Lock()
	defer lock.Unlock()

	today := s.clock.Today()
	now := time.Now()

	// ── Validating ──
	first, err := s.registry.IsFirstCompletion(playerID, activityID)
	if err != nil {
		return domain.CompletionResult{}, err
	}

	streakState, err := s.loadStreak(playerID)
	if err != nil {
		return domain.CompletionResult{}, err
	}
	prog, err := s.loadProgression(playerID)
	if err != nil {
		return domain.CompletionResult{}, err
	}

	// ── RewardComputed: pure transitions over the values read above ──
	reward, known := progression.ComputeReward(kind, first)
	if !known {
		metrics.UnknownActivityKinds.Inc()
		log.Printf("[completion] unknown activity kind %q — medium-tier fallback", kind)
	}

	streakRes := progression.Advance(streakState, today)
	if streakRes.Increased && streakRes.State.CurrentStreak == 1 && streakState.CurrentStreak > 1 {
		metrics.StreaksBroken.Inc()
	}

	prog.LifetimeCompletedCount++
	milestone := progression.CheckMilestone(
		prog.LifetimeCompletedCount,
		s.cfg.MilestoneInterval,
		prog.LastMilestoneAwardedAt,
		s.cfg.MilestoneBonusGems,
	)
	prog.LastMilestoneAwardedAt = milestone.NewLastAwardedAt

	applied := progression.ApplyExperience(prog, reward.XP)
	prog = applied.State

	prog.GoldBalance += reward.Currency
	prog.GemBalance += milestone.BonusCurrency

	// ── Persisted: local durable store first, remote best-effort ──
	if first {
		if err := s.registry.Record(playerID, activityID, now); err != nil {
			return domain.CompletionResult{}, err
		}
	}
	if err := s.saveStreak(playerID, streakRes.State); err != nil {
		return domain.CompletionResult{}, err
	}
	if err := s.saveProgression(playerID, prog); err != nil {
		return domain.CompletionResult{}, err
	}
	if reward.Currency > 0 {
		if err := s.wallet.Credit(playerID, domain.CurrencyGold, reward.Currency, "activity:"+activityID, prog.GoldBalance); err != nil {
			return domain.CompletionResult{}, err
		}
	}
	if milestone.BonusCurrency > 0 {
		if err := s.wallet.Credit(playerID, domain.CurrencyGems, milestone.BonusCurrency, "milestone", prog.GemBalance); err != nil {
			return domain.CompletionResult{}, err
		}
	}

	ev := domain.SyncEvent{
		EventID:     uuid.NewString(),
		PlayerID:    playerID,
		OccurredAt:  now,
		Streak:      streakRes.State,
		Progression: prog,
	}
	if first {
		ev.Completion = &domain.CompletionRecord{
			PlayerID:    playerID,
			ActivityID:  activityID,
			CompletedAt: now,
		}
	}
	pending := s.replicate(ctx, ev)

	// ── ResultReady ──
	result := domain.CompletionResult{
		PlayerID:         playerID,
		ActivityID:       activityID,
		FirstCompletion:  first,
		XPAwarded:        reward.XP,
		CurrencyAwarded:  reward.Currency,
		LeveledUp:        applied.LeveledUp,
		NewLevel:         applied.NewLevel,
		StreakIncreased:  streakRes.Increased,
		NewStreakValue:   streakRes.State.CurrentStreak,
		FreezesConsumed:  streakRes.FreezesConsumed,
		MilestoneAwarded: milestone.Awarded,
		MilestoneBonus:   milestone.BonusCurrency,
		PendingSync:      pending,
	}

	s.observe(kind, result)
	return result, nil
}

// GrantFreezes credits n streak-freeze tokens (called by the purchase
// collaborator) and replicates the new snapshot.
func (s *Service) GrantFreezes(ctx context.Context, playerID string, n int) (domain.StreakState, error) {
	if playerID == "" {
		return domain.StreakState{}, domain.ErrEmptyPlayerID
	}
	if n <= 0 {
		return domain.StreakState{}, fmt.Errorf("%w: got %d", domain.ErrNonPositiveAmount, n)
	}

	lock := s.playerLock(playerID)
	lock.Lock()
	defer lock.Unlock()

	state, err := s.loadStreak(playerID)
	if err != nil {
		return domain.StreakState{}, err
	}
	state = progression.GrantFreezes(state, n)
	if err := s.saveStreak(playerID, state); err != nil {
		return domain.StreakState{}, err
	}

	prog, err := s.loadProgression(playerID)
	if err != nil {
		return domain.StreakState{}, err
	}
	s.replicate(ctx, domain.SyncEvent{
		EventID:     uuid.NewString(),
		PlayerID:    playerID,
		OccurredAt:  time.Now(),
		Streak:      state,
		Progression: prog,
	})

	return state, nil
}

// replicate durably enqueues the event, then attempts one bounded
// synchronous push. Returns true when the event is still pending.
func (s *Service) replicate(ctx context.Context, ev domain.SyncEvent) bool {
	if s.remote == nil {
		return false
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[completion] marshal sync event: %v", err)
		return true
	}
	rowID, err := s.db.EnqueueSync(ev.EventID, ev.PlayerID, payload)
	if err != nil {
		log.Printf("[completion] enqueue sync event: %v", err)
		return true
	}

	pushCtx, cancel := context.WithTimeout(ctx, inlinePushTimeout)
	defer cancel()

	if err := s.remote.Apply(pushCtx, ev); err != nil {
		metrics.SyncPushFailures.Inc()
		_ = s.db.RecordSyncFailure(rowID, err.Error(), time.Now().Add(5*time.Second))
		return true
	}
	if err := s.db.MarkSynced(rowID); err != nil {
		log.Printf("[completion] mark synced: %v", err)
	}
	metrics.SyncEventsPublished.Inc()
	return false
}

// observe records the Prometheus counters for one completion result.
func (s *Service) observe(kind domain.ActivityKind, r domain.CompletionResult) {
	firstLabel := "false"
	if r.FirstCompletion {
		firstLabel = "true"
	}
	metrics.CompletionsProcessed.WithLabelValues(string(kind), firstLabel).Inc()
	metrics.XPAwarded.Add(float64(r.XPAwarded))
	if r.CurrencyAwarded > 0 {
		metrics.CurrencyAwarded.WithLabelValues(string(domain.CurrencyGold)).Add(float64(r.CurrencyAwarded))
	}
	if r.MilestoneBonus > 0 {
		metrics.CurrencyAwarded.WithLabelValues(string(domain.CurrencyGems)).Add(float64(r.MilestoneBonus))
		metrics.MilestonesAwarded.Inc()
	}
	if r.LeveledUp {
		metrics.LevelUps.Inc()
	}
	if r.FreezesConsumed > 0 {
		metrics.FreezesConsumed.Add(float64(r.FreezesConsumed))
	}
}

// ─── Snapshot Reads ─────────────────────────────────────────────────────────

// GetStreak returns a snapshot of the player's streak record.
func (s *Service) GetStreak(playerID string) (domain.StreakState, error) {
	return s.loadStreak(playerID)
}

// GetProgression returns a snapshot of the player's progression record.
func (s *Service) GetProgression(playerID string) (domain.ProgressionState, error) {
	return s.loadProgression(playerID)
}

// Summary aggregates the display state for one player.
type Summary struct {
	PlayerID       string                  `json:"player_id"`
	Streak         domain.StreakState      `json:"streak"`
	CompletedToday bool                    `json:"completed_today"`
	Progression    domain.ProgressionState `json:"progression"`
	XPToNextLevel  int64                   `json:"xp_to_next_level"`
	PendingSync    int                     `json:"pending_sync"`
}

// GetSummary assembles the summary snapshot.
func (s *Service) GetSummary(playerID string) (Summary, error) {
	streak, err := s.loadStreak(playerID)
	if err != nil {
		return Summary{}, err
	}
	prog, err := s.loadProgression(playerID)
	if err != nil {
		return Summary{}, err
	}
	pending, err := s.db.PendingSyncCountForPlayer(playerID)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		PlayerID:       playerID,
		Streak:         streak,
		CompletedToday: streak.CompletedToday(s.clock.Today()),
		Progression:    prog,
		XPToNextLevel:  progression.XPToNextLevel(prog),
		PendingSync:    pending,
	}, nil
}

// ─── Ledger Blob Codecs ─────────────────────────────────────────────────────
// An unreadable blob reinitializes that ledger only — the completion
// flow never crashes on corruption.

func (s *Service) loadStreak(playerID string) (domain.StreakState, error) {
	blob, err := s.db.Get(streakKey(playerID))
	if err != nil {
		return domain.StreakState{}, fmt.Errorf("get streak: %w", err)
	}
	if len(blob) == 0 {
		return domain.StreakState{}, nil
	}
	var state domain.StreakState
	if err := json.Unmarshal(blob, &state); err != nil {
		log.Printf("[completion] %v (streak:%s): %v", domain.ErrStateCorrupted, playerID, err)
		return domain.StreakState{}, nil
	}
	return state, nil
}

func (s *Service) saveStreak(playerID string, state domain.StreakState) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal streak: %w", err)
	}
	if err := s.db.Set(streakKey(playerID), blob); err != nil {
		return fmt.Errorf("save streak: %w", err)
	}
	return nil
}

func (s *Service) loadProgression(playerID string) (domain.ProgressionState, error) {
	blob, err := s.db.Get(progressionKey(playerID))
	if err != nil {
		return domain.ProgressionState{}, fmt.Errorf("get progression: %w", err)
	}
	if len(blob) == 0 {
		return domain.NewProgressionState(), nil
	}
	var state domain.ProgressionState
	if err := json.Unmarshal(blob, &state); err != nil {
		log.Printf("[completion] %v (progression:%s): %v", domain.ErrStateCorrupted, playerID, err)
		return domain.NewProgressionState(), nil
	}
	if state.Level < 1 {
		state.Level = 1
	}
	return state, nil
}

func (s *Service) saveProgression(playerID string, state domain.ProgressionState) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal progression: %w", err)
	}
	if err := s.db.Set(progressionKey(playerID), blob); err != nil {
		return fmt.Errorf("save progression: %w", err)
	}
	return nil
}
