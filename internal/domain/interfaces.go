package domain

import "context"

// LocalStore is the synchronous durable key-value store on the device.
// Keys are namespaced per player and per ledger ("streak:{playerID}",
// "progression:{playerID}", "completions:{playerID}"); values are opaque
// JSON blobs. No concurrency guarantees — the orchestrator serializes
// access per player.
type LocalStore interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
}

// RemoteStore is the authoritative backend. It may fail transiently;
// the engine never blocks gameplay on it.
type RemoteStore interface {
	// Apply merges one sync event: conditional completion insert plus
	// greatest-wins upserts of the streak and progression rows.
	Apply(ctx context.Context, ev SyncEvent) error

	// CompletionExists answers whether a first completion was already
	// recorded remotely for this (player, activity) pair.
	CompletionExists(ctx context.Context, playerID, activityID string) (bool, error)

	// Ping checks reachability (health checks).
	Ping(ctx context.Context) error
}
