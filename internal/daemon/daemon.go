package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stridr-app/stridr/internal/api"
	appsync "github.com/stridr-app/stridr/internal/app/sync"
	"github.com/stridr-app/stridr/internal/domain"
	"github.com/stridr-app/stridr/internal/health"
	"github.com/stridr-app/stridr/internal/infra/catalog"
	_ "github.com/stridr-app/stridr/internal/infra/metrics" // Register Prometheus metrics
	"github.com/stridr-app/stridr/internal/infra/notify"
	"github.com/stridr-app/stridr/internal/infra/scheduler"
	"github.com/stridr-app/stridr/internal/infra/sqlite"
	"github.com/stridr-app/stridr/internal/infra/steps"
)

// Daemon is the core Stridr runtime. It wires together all services.
type Daemon struct {
	Config     Config
	DB         *sqlite.DB
	Identity   domain.Identity
	Catalog    domain.TrailCatalog
	Source     *steps.StoreSource
	Notifier   *notify.Dispatcher
	Reconciler *appsync.Reconciler
	Triggers   *scheduler.Triggers
	Health     *health.Checker
	Server     *api.Server

	cancel context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New(version string) (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg, version)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config, version string) (*Daemon, error) {
	db, err := sqlite.Open(stridrHome())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	identity := domain.Identity{
		UserID:           cfg.User.ID,
		AccountCreatedAt: cfg.AccountCreatedAt(),
	}

	cat := catalog.Builtin()
	source := steps.NewStoreSource(db)
	notifier := notify.NewDispatcherWithPolicy(db, domain.NotificationPolicy{
		MaxPerDay:  cfg.Notifications.MaxPerDay,
		QuietStart: cfg.Notifications.QuietStart,
		QuietEnd:   cfg.Notifications.QuietEnd,
	})
	reconciler := appsync.New(db, source, notifier, cat)

	srv := api.NewServer(db, reconciler, notifier, cat, identity, version)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	d := &Daemon{
		Config:     cfg,
		DB:         db,
		Identity:   identity,
		Catalog:    cat,
		Source:     source,
		Notifier:   notifier,
		Reconciler: reconciler,
		Server:     srv,
	}

	d.Health = health.NewChecker(db, stridrHome(), identity.UserID)
	srv.SetHealthChecker(d.Health)

	d.Triggers = scheduler.New(scheduler.Config{
		SyncInterval:        cfg.SyncInterval(),
		InactivityAfterDays: cfg.Sync.InactivityAfterDays,
	}, reconciler, db, notifier, identity)

	return d, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Health.Run(ctx)

	if err := d.Triggers.Start(ctx); err != nil {
		return fmt.Errorf("start triggers: %w", err)
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

		if err := d.Triggers.Stop(); err != nil {
			log.Printf("[daemon] trigger shutdown: %v", err)
		}
		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("Stridr serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.Triggers != nil {
		_ = d.Triggers.Stop()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
