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

	"github.com/lumenhost/standbyd/internal/api"
	"github.com/lumenhost/standbyd/internal/domain"
	"github.com/lumenhost/standbyd/internal/infra/injector"
	"github.com/lumenhost/standbyd/internal/infra/metrics"
	"github.com/lumenhost/standbyd/internal/infra/sqlite"
	"github.com/lumenhost/standbyd/internal/standby"
)

// Daemon is the standbyd runtime: an Engine wired to a concrete
// injector.Host, a sqlite checkpoint store, the debug API, and a
// periodic scanner/checkpoint loop. It is the single owning container
// the host process constructs once (SPEC_FULL.md §9 "global mutable
// state... hold it behind a single owning container").
type Daemon struct {
	Config Config
	DB     *sqlite.DB
	Host   *injector.Host
	Engine *standby.Engine
	Server *api.Server

	cancel context.CancelFunc
}

// New creates and initializes a Daemon from the on-disk config,
// falling back to defaults when none is present (§4.1, §7: settings
// parsing never fails the engine).
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	db, err := sqlite.Open(cfg.Standby.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint store: %w", err)
	}

	host := injector.NewHost(cfg.Standby.DataDir)
	host.SetAppIdleSettings(cfg.Standby.Settings)

	engine := standby.NewEngine(host, func(c domain.Change) {
		metrics.BucketTransitions.WithLabelValues(c.New.String(), c.Reason.Reason.String()).Inc()
		log.Printf("[standby] %d/%s: %s -> %s (%s)", c.User, c.Package, c.Old, c.New, c.Reason)
	})

	records, err := db.LoadSnapshot()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	if len(records) > 0 {
		engine.Store().Restore(records)
		log.Printf("[daemon] restored %d history records from checkpoint", len(records))
	}

	srv := api.NewServer(engine)
	srv.EnableMetrics()

	return &Daemon{
		Config: cfg,
		DB:     db,
		Host:   host,
		Engine: engine,
		Server: srv,
	}, nil
}

// Serve runs the engine loop, the periodic scanner/checkpoint loop,
// and the debug HTTP server, blocking until ctx is canceled or a
// termination signal arrives. It mirrors the lifecycle spec.md §3
// describes: construction at SYSTEM_SERVICES_READY, a display
// off-then-on bootstrap toggle (SPEC_FULL.md §5), then BOOT_COMPLETED
// once the engine loop is actually draining tasks.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Engine.Run(ctx)

	if err := d.Engine.OnBootPhase(domain.BootPhaseSystemServicesReady); err != nil {
		return fmt.Errorf("boot phase: %w", err)
	}

	// Bootstrap display toggle (SPEC_FULL.md §5): flip off-then-on once
	// so the screen-on clock's first sample is well-defined before the
	// first scan runs.
	d.Host.SetDisplayOn(false)
	d.Host.SetDisplayOn(true)

	if err := d.Engine.OnBootPhase(domain.BootPhaseCompleted); err != nil {
		return fmt.Errorf("boot phase: %w", err)
	}

	scanInterval, err := time.ParseDuration(d.Config.Standby.ScanInterval)
	if err != nil || scanInterval <= 0 {
		scanInterval = 30 * time.Second
	}
	go d.scanLoop(ctx, scanInterval)
	go d.checkpointLoop(ctx, scanInterval*4)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		d.saveCheckpoint()
		_ = httpServer.Shutdown(shutdownCtx)
		d.Engine.Close()
		_ = d.DB.Close()
	}()

	log.Printf("[daemon] standbyd serving debug API on http://%s", addr)

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources without serving HTTP. Used by
// CLI subcommands that drive the engine directly (scan, bucket
// get/set, events inject) and don't need the debug server running.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	d.Engine.Close()
	d.saveCheckpoint()
	if d.DB != nil {
		_ = d.DB.Close()
	}
}

// scanLoop drives C6's periodic sweep (§4.4 "a) on a periodic timer")
// for every currently-running user.
func (d *Daemon) scanLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, user := range d.Host.RunningUserIDs() {
				start := time.Now()
				if err := d.Engine.CheckIdleStates(user); err != nil {
					log.Printf("[scanner] check idle states for user %d: %v", user, err)
					continue
				}
				metrics.ScanDuration.Observe(time.Since(start).Seconds())
			}
			metrics.Paroled.Set(boolToFloat(d.Engine.Parole().Paroled()))
		}
	}
}

// checkpointLoop periodically persists the history store (§6
// "persistence... emits checkpoints").
func (d *Daemon) checkpointLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.saveCheckpoint()
		}
	}
}

func (d *Daemon) saveCheckpoint() {
	records := d.Engine.Store().Snapshot()
	if err := d.DB.SaveSnapshot(records); err != nil {
		metrics.CheckpointWrites.WithLabelValues("error").Inc()
		log.Printf("[daemon] checkpoint save failed: %v", err)
		return
	}
	metrics.CheckpointWrites.WithLabelValues("ok").Inc()
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
