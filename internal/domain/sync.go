package domain

import "time"

// SyncEvent is one durable unit of remote replication. It carries the
// full post-completion snapshot so a stale retry is harmless to replay:
// the remote store merges with monotonic (greatest-wins) semantics.
type SyncEvent struct {
	EventID    string    `json:"event_id"`
	PlayerID   string    `json:"player_id"`
	OccurredAt time.Time `json:"occurred_at"`

	// Nil when the event carries no first completion (e.g. freeze grant).
	Completion *CompletionRecord `json:"completion,omitempty"`

	Streak      StreakState      `json:"streak"`
	Progression ProgressionState `json:"progression"`
}
