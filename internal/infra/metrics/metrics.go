// Package metrics provides Prometheus metrics for WordKite — counters
// and gauges for completions, rewards, streaks, milestones, and the
// remote-sync pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Completions ────────────────────────────────────────────────────────────

// CompletionsProcessed tracks processed activity completions by kind and
// whether they were first-time completions.
var CompletionsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "wordkite",
	Name:      "completions_processed_total",
	Help:      "Total processed activity completions.",
}, []string{"kind", "first"})

// UnknownActivityKinds counts completions that fell back to the medium
// reward tier because their kind was not in the table.
var UnknownActivityKinds = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "wordkite",
	Name:      "unknown_activity_kind_total",
	Help:      "Completions with an unrecognized activity kind (medium-tier fallback).",
})

// ─── Rewards ────────────────────────────────────────────────────────────────

// XPAwarded tracks total experience granted.
var XPAwarded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "wordkite",
	Name:      "xp_awarded_total",
	Help:      "Total experience points awarded.",
})

// CurrencyAwarded tracks credits by currency.
var CurrencyAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "wordkite",
	Name:      "currency_awarded_total",
	Help:      "Total currency credited.",
}, []string{"currency"})

// LevelUps tracks level crossings.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "wordkite",
	Name:      "level_ups_total",
	Help:      "Total level-up events.",
})

// MilestonesAwarded tracks milestone bonus grants.
var MilestonesAwarded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "wordkite",
	Name:      "milestones_awarded_total",
	Help:      "Total milestone bonuses granted.",
})

// ─── Streaks ────────────────────────────────────────────────────────────────

// FreezesConsumed tracks streak freezes spent covering gaps.
var FreezesConsumed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "wordkite",
	Name:      "streak_freezes_consumed_total",
	Help:      "Total streak freezes consumed.",
})

// StreaksBroken tracks streaks that reset to 1 after an uncovered gap.
var StreaksBroken = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "wordkite",
	Name:      "streaks_broken_total",
	Help:      "Total streak breaks (gap not covered by freezes).",
})

// ─── Remote Sync ────────────────────────────────────────────────────────────

// SyncEventsPublished tracks outbox events successfully pushed.
var SyncEventsPublished = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "wordkite",
	Name:      "sync_events_published_total",
	Help:      "Total sync events pushed to the remote store.",
})

// SyncPushFailures tracks failed remote pushes (retried with backoff).
var SyncPushFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "wordkite",
	Name:      "sync_push_failures_total",
	Help:      "Total failed remote sync pushes.",
})

// SyncPendingEvents tracks the current outbox depth.
var SyncPendingEvents = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "wordkite",
	Name:      "sync_pending_events",
	Help:      "Sync events waiting in the local outbox.",
})
