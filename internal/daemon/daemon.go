package daemon

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wordkite/wordkite/internal/api"
	"github.com/wordkite/wordkite/internal/app/completion"
	"github.com/wordkite/wordkite/internal/app/wallet"
	"github.com/wordkite/wordkite/internal/domain"
	"github.com/wordkite/wordkite/internal/health"
	"github.com/wordkite/wordkite/internal/infra/remote"
	"github.com/wordkite/wordkite/internal/infra/sqlite"
)

// Daemon is the core WordKite runtime. It wires together all services.
type Daemon struct {
	Config      Config
	DB          *sqlite.DB
	Remote      *remote.Store // nil when remote sync is disabled
	Syncer      *remote.Syncer
	Completions *completion.Service
	Wallet      *wallet.Service
	Health      *health.Checker
	Server      *api.Server
	cancel      context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	// Open the local durable store
	db, err := sqlite.Open(wordkiteHome())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d := &Daemon{Config: cfg, DB: db}

	// Remote authoritative store. Connections are lazy: an unreachable
	// backend degrades to outbox-and-retry, never a startup failure.
	var remoteStore domain.RemoteStore
	if cfg.Remote.Enabled {
		store, err := remote.New(context.Background(), cfg.Remote.DSN)
		if err != nil {
			log.Printf("[daemon] WARNING: remote store unavailable: %v (sync deferred)", err)
		} else {
			d.Remote = store
			remoteStore = store
		}
	}

	// Player clock (calendar days in the configured zone)
	loc := time.Local
	if cfg.Engine.Timezone != "" {
		parsed, err := time.LoadLocation(cfg.Engine.Timezone)
		if err != nil {
			log.Printf("[daemon] WARNING: bad timezone %q, using host local: %v", cfg.Engine.Timezone, err)
		} else {
			loc = parsed
		}
	}
	clock := domain.SystemClock{Location: loc}

	// Completion orchestrator + wallet
	d.Completions = completion.NewService(db, remoteStore, clock, completion.Config{
		MilestoneInterval:  cfg.Engine.MilestoneInterval,
		MilestoneBonusGems: cfg.Engine.MilestoneBonusGems,
	})
	d.Wallet = wallet.NewService(db)

	// Background sync worker
	if remoteStore != nil {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
		d.Syncer = remote.NewSyncer(db, remoteStore, remote.SyncerConfig{
			Interval:  cfg.Remote.SyncIntervalDuration(),
			BatchSize: cfg.Remote.BatchSize,
		}, logger)
	}

	// Health checker
	d.Health = health.NewChecker(db, wordkiteHome(), remoteStore)

	// API server
	srv := api.NewServer(d.Completions, d.Wallet)
	srv.SetHealthChecker(d.Health)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}
	d.Server = srv

	return d, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	// Background services
	go d.Health.Run(ctx)
	if d.Syncer != nil {
		go d.Syncer.Run(ctx)
	}

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		if d.Remote != nil {
			d.Remote.Close()
		}
		_ = d.DB.Close()
		cancel()
	}()

	fmt.Printf("WordKite serving on http://%s\n", addr)
	if d.Config.Remote.Enabled {
		fmt.Printf("  Remote sync: enabled (every %s)\n", d.Config.Remote.SyncIntervalDuration())
	}
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop triggers a graceful shutdown.
func (d *Daemon) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
}

// Close releases resources. Used by CLI commands that run without Serve.
func (d *Daemon) Close() error {
	if d.Remote != nil {
		d.Remote.Close()
	}
	return d.DB.Close()
}
