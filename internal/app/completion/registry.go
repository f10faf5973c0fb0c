// Package completion implements the one side-effecting component of the
// engine: the orchestrator that sequences idempotency check, reward
// computation, streak advance, milestone check, experience application,
// and persistence for each completed activity.
package completion

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/wordkite/wordkite/internal/domain"
)

// Local-store key namespaces (one blob per player per ledger).
func streakKey(playerID string) string      { return "streak:" + playerID }
func progressionKey(playerID string) string { return "progression:" + playerID }
func completionsKey(playerID string) string { return "completions:" + playerID }

// Registry is the idempotency guard: it answers whether an exact
// activity was completed before, selecting the first-time vs repeat
// reward tier. IsFirstCompletion must be checked before Record; the
// orchestrator holds the player lock across the pair.
type Registry struct {
	store domain.LocalStore
}

// NewRegistry creates a registry over the local store.
func NewRegistry(store domain.LocalStore) *Registry {
	return &Registry{store: store}
}

// IsFirstCompletion reports whether no completion record exists for the
// (player, activity) pair.
func (r *Registry) IsFirstCompletion(playerID, activityID string) (bool, error) {
	set, err := r.load(playerID)
	if err != nil {
		return false, err
	}
	_, seen := set[activityID]
	return !seen, nil
}

// Record marks the activity as completed at the given time.
func (r *Registry) Record(playerID, activityID string, completedAt time.Time) error {
	set, err := r.load(playerID)
	if err != nil {
		return err
	}
	set[activityID] = completedAt

	blob, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal completions: %w", err)
	}
	if err := r.store.Set(completionsKey(playerID), blob); err != nil {
		return fmt.Errorf("save completions: %w", err)
	}
	return nil
}

// load reads the player's completion set. An unreadable blob counts as
// empty: availability over historical accuracy — the remote unique
// constraint still prevents double first-completion rows upstream.
func (r *Registry) load(playerID string) (map[string]time.Time, error) {
	blob, err := r.store.Get(completionsKey(playerID))
	if err != nil {
		return nil, fmt.Errorf("get completions: %w", err)
	}
	set := make(map[string]time.Time)
	if len(blob) == 0 {
		return set, nil
	}
	if err := json.Unmarshal(blob, &set); err != nil {
		log.Printf("[completion] %v (completions:%s): %v", domain.ErrStateCorrupted, playerID, err)
		return make(map[string]time.Time), nil
	}
	return set, nil
}
