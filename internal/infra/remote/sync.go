package remote

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/wordkite/wordkite/internal/domain"
	"github.com/wordkite/wordkite/internal/infra/metrics"
	"github.com/wordkite/wordkite/internal/infra/sqlite"
)

// Syncer drains the local sync outbox into the remote store. Failed
// pushes are retried with exponential backoff per event; gameplay never
// waits on this loop.
type Syncer struct {
	db     *sqlite.DB
	store  domain.RemoteStore
	logger *slog.Logger

	interval  time.Duration
	batchSize int
}

// SyncerConfig tunes the poll loop.
type SyncerConfig struct {
	Interval  time.Duration // default 5s
	BatchSize int           // default 50
}

// NewSyncer creates a sync worker over the given outbox and store.
func NewSyncer(db *sqlite.DB, store domain.RemoteStore, cfg SyncerConfig, logger *slog.Logger) *Syncer {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		db:        db,
		store:     store,
		logger:    logger,
		interval:  cfg.Interval,
		batchSize: cfg.BatchSize,
	}
}

// Run polls until the context is cancelled. Call in a goroutine.
func (s *Syncer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Drain whatever survived the last shutdown before the first tick.
	s.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("syncer shutting down")
			return
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

// poll pushes one batch of due events.
func (s *Syncer) poll(ctx context.Context) {
	rows, err := s.db.PendingSync(time.Now(), s.batchSize)
	if err != nil {
		s.logger.Error("outbox fetch failed", "error", err)
		return
	}

	for _, row := range rows {
		if err := s.push(ctx, row); err != nil {
			next := time.Now().Add(backoff(row.Attempts + 1))
			if dbErr := s.db.RecordSyncFailure(row.ID, err.Error(), next); dbErr != nil {
				s.logger.Error("record sync failure", "error", dbErr)
			}
			metrics.SyncPushFailures.Inc()
			s.logger.Warn("sync push failed",
				"event_id", row.EventID,
				"player_id", row.PlayerID,
				"attempts", row.Attempts+1,
				"error", err)
			continue
		}
		if err := s.db.MarkSynced(row.ID); err != nil {
			s.logger.Error("mark synced", "event_id", row.EventID, "error", err)
			continue
		}
		metrics.SyncEventsPublished.Inc()
	}

	if depth, err := s.db.PendingSyncCount(); err == nil {
		metrics.SyncPendingEvents.Set(float64(depth))
	}
}

// push decodes and applies one outbox row.
func (s *Syncer) push(ctx context.Context, row sqlite.OutboxRow) error {
	var ev domain.SyncEvent
	if err := json.Unmarshal(row.Payload, &ev); err != nil {
		// Corrupt payload: drop it rather than wedge the queue. The
		// local ledgers already hold the state; the next completion
		// re-snapshots everything.
		s.logger.Error("dropping unreadable sync event", "event_id", row.EventID, "error", err)
		return s.db.MarkSynced(row.ID)
	}
	return s.store.Apply(ctx, ev)
}

// backoff returns the retry delay after n failed attempts: 5s, 10s,
// 20s, ... capped at 5 minutes.
func backoff(n int) time.Duration {
	d := 5 * time.Second
	for i := 1; i < n; i++ {
		d *= 2
		if d >= 5*time.Minute {
			return 5 * time.Minute
		}
	}
	return d
}
