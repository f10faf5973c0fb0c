// Package sqlite provides the local durable store for WordKite.
// Uses WAL mode for concurrent reads and crash-safe writes. The engine
// treats it as a per-player key-value store plus two append-oriented
// tables: the currency audit ledger and the remote-sync outbox.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/wordkite/wordkite/internal/domain"
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Per-player ledger blobs: streak:{id}, progression:{id},
		// completions:{id}. Values are JSON.
		`CREATE TABLE IF NOT EXISTS state (
			key   TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)`,

		// Append-only currency credits (audit trail; debits are owned
		// by the purchasing collaborator, not this engine).
		`CREATE TABLE IF NOT EXISTS currency_ledger (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			player_id  TEXT NOT NULL,
			currency   TEXT NOT NULL,
			amount     INTEGER NOT NULL,
			reason     TEXT,
			balance    INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_player ON currency_ledger(player_id, id)`,

		// Remote-sync outbox: one row per completion awaiting a
		// successful push to the authoritative store.
		`CREATE TABLE IF NOT EXISTS sync_outbox (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id     TEXT NOT NULL UNIQUE,
			player_id    TEXT NOT NULL,
			payload      BLOB NOT NULL,
			attempts     INTEGER NOT NULL DEFAULT 0,
			next_attempt INTEGER NOT NULL DEFAULT 0,
			last_error   TEXT,
			created_at   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outbox_next ON sync_outbox(next_attempt, id)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Key-Value State (domain.LocalStore) ────────────────────────────────────

// Get retrieves a state blob, or nil if the key is absent.
func (d *DB) Get(key string) ([]byte, error) {
	var value []byte
	err := d.db.QueryRow(`SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return value, err
}

// Set stores a state blob, replacing any previous value.
func (d *DB) Set(key string, value []byte) error {
	_, err := d.db.Exec(
		`INSERT INTO state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value,
	)
	return err
}

// Remove deletes a state blob. Removing an absent key is not an error.
func (d *DB) Remove(key string) error {
	_, err := d.db.Exec(`DELETE FROM state WHERE key = ?`, key)
	return err
}

// ─── Currency Ledger ────────────────────────────────────────────────────────

// InsertLedgerEntry appends one currency credit and returns its row id.
func (d *DB) InsertLedgerEntry(e domain.LedgerEntry) (int64, error) {
	res, err := d.db.Exec(
		`INSERT INTO currency_ledger (player_id, currency, amount, reason, balance, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.PlayerID, string(e.Currency), e.Amount, e.Reason, e.Balance, e.CreatedAt.Unix(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// LedgerEntries returns a player's most recent credits, newest first.
func (d *DB) LedgerEntries(playerID string, limit int) ([]domain.LedgerEntry, error) {
	rows, err := d.db.Query(
		`SELECT id, player_id, currency, amount, reason, balance, created_at
		 FROM currency_ledger WHERE player_id = ? ORDER BY id DESC LIMIT ?`,
		playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		var currency string
		var createdAt int64
		var reason sql.NullString
		if err := rows.Scan(&e.ID, &e.PlayerID, &currency, &e.Amount, &reason, &e.Balance, &createdAt); err != nil {
			return nil, err
		}
		e.Currency = domain.Currency(currency)
		e.Reason = reason.String
		e.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ─── Sync Outbox ────────────────────────────────────────────────────────────

// OutboxRow is one pending remote-sync event.
type OutboxRow struct {
	ID       int64
	EventID  string
	PlayerID string
	Payload  []byte
	Attempts int
}

// EnqueueSync stores a serialized sync event for the background pusher
// and returns its row id. Re-enqueueing the same event id is a no-op
// (retried calls after a crash replay harmlessly).
func (d *DB) EnqueueSync(eventID, playerID string, payload []byte) (int64, error) {
	res, err := d.db.Exec(
		`INSERT INTO sync_outbox (event_id, player_id, payload, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(event_id) DO NOTHING`,
		eventID, playerID, payload, time.Now().Unix(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// PendingSync returns due outbox rows in insertion order, skipping rows
// whose backoff window has not elapsed.
func (d *DB) PendingSync(now time.Time, limit int) ([]OutboxRow, error) {
	rows, err := d.db.Query(
		`SELECT id, event_id, player_id, payload, attempts
		 FROM sync_outbox WHERE next_attempt <= ? ORDER BY id ASC LIMIT ?`,
		now.Unix(), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OutboxRow
	for rows.Next() {
		var r OutboxRow
		if err := rows.Scan(&r.ID, &r.EventID, &r.PlayerID, &r.Payload, &r.Attempts); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// MarkSynced removes a successfully pushed event.
func (d *DB) MarkSynced(id int64) error {
	_, err := d.db.Exec(`DELETE FROM sync_outbox WHERE id = ?`, id)
	return err
}

// RecordSyncFailure bumps the attempt counter and schedules the retry.
func (d *DB) RecordSyncFailure(id int64, cause string, nextAttempt time.Time) error {
	_, err := d.db.Exec(
		`UPDATE sync_outbox SET attempts = attempts + 1, next_attempt = ?, last_error = ?
		 WHERE id = ?`,
		nextAttempt.Unix(), cause, id,
	)
	return err
}

// PendingSyncCount returns the outbox depth (for health and metrics).
func (d *DB) PendingSyncCount() (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM sync_outbox`).Scan(&n)
	return n, err
}

// PendingSyncCountForPlayer returns the outbox depth for one player.
func (d *DB) PendingSyncCountForPlayer(playerID string) (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM sync_outbox WHERE player_id = ?`, playerID).Scan(&n)
	return n, err
}
