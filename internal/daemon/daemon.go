package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"orato/internal/api"
	"orato/internal/config"
	"orato/internal/deps"
	"orato/internal/logging"
	"orato/internal/preflight"
	"orato/internal/server"
)

// ErrAlreadyRunning reports that another process holds the instance lock.
var ErrAlreadyRunning = errors.New("another orato server instance is already running")

// Daemon owns the API server and enforces single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	services *Services
	server   *server.Server

	lockPath string
	lock     *flock.Flock

	running   atomic.Bool
	startedAt time.Time
}

// New constructs a daemon around already-built services.
func New(cfg *config.Config, svc *Services, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || svc == nil {
		return nil, errors.New("daemon requires config and services")
	}
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		services: svc,
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}
	d.server = server.New(cfg, server.Dependencies{
		Analyzer:   svc.Analyzer,
		Classifier: svc.Detector,
		Assistant:  svc.Chatbot,
		Campus:     svc.Knowledge,
		History:    svc.History,
		Status:     d.Status,
	}, logger)
	return d, nil
}

// Start acquires the instance lock, runs startup preflight, and begins
// serving. Failed checks are logged; the server still starts.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}

	for _, failed := range preflight.Failed(preflight.RunCore(ctx, d.cfg)) {
		logging.WarnWithContext(d.logger, "preflight check failed", "preflight_failed",
			logging.String("check", failed.Name),
			logging.String("detail", failed.Detail),
			logging.String(logging.FieldImpact, "requests depending on this check will degrade or fail"),
			logging.String(logging.FieldErrorHint, "run orato status for details"),
		)
	}

	if err := d.server.Start(ctx); err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("start api server: %w", err)
	}

	d.startedAt = time.Now()
	d.running.Store(true)
	d.logger.Info("orato server started",
		logging.String("lock", d.lockPath),
		logging.String("address", d.server.Addr()),
	)
	return nil
}

// Addr returns the bound API address once started.
func (d *Daemon) Addr() string {
	return d.server.Addr()
}

// Stop drains the API server and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.server.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release server lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("orato server stopped")
}

// Close stops the daemon and releases service resources.
func (d *Daemon) Close() error {
	d.Stop()
	return d.services.Close()
}

// Status reports runtime information and readiness checks.
func (d *Daemon) Status(ctx context.Context, deep bool) api.ServiceStatus {
	status := Snapshot(ctx, d.cfg, d.services, deep)
	status.LockFilePath = d.lockPath
	if d.running.Load() {
		status.StartedAt = api.FormatTime(d.startedAt)
	}
	return status
}

// Snapshot gathers readiness information without a running server. The CLI
// status command uses it directly.
func Snapshot(ctx context.Context, cfg *config.Config, svc *Services, deep bool) api.ServiceStatus {
	var results []preflight.Result
	if deep {
		results = preflight.RunAll(ctx, cfg)
	} else {
		results = preflight.RunCore(ctx, cfg)
	}
	checks := api.FromChecks(results)
	status := api.ServiceStatus{
		Healthy:      api.AllPassed(checks),
		PID:          os.Getpid(),
		Checks:       checks,
		Dependencies: api.FromDependencies(deps.CheckBinaries(deps.Requirements(cfg))),
	}
	if svc != nil {
		status.HistoryPath = svc.History.Path()
		status.ModelsLoaded = svc.Artifacts.Loaded()
		status.KnowledgeFiles = len(svc.Knowledge.Sources)
		status.CacheEnabled = svc.CacheEnabled()
	}
	return status
}
