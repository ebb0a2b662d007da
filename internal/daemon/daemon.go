// Package daemon ties the registry, worker pool, and API server together and
// enforces single-instance execution over the artifact root.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"subgen/internal/api"
	"subgen/internal/artifacts"
	"subgen/internal/config"
	"subgen/internal/httpapi"
	"subgen/internal/jobs"
	"subgen/internal/logging"
	"subgen/internal/workpool"
)

// Daemon coordinates the background services.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *jobs.Store
	store    *artifacts.Store
	pool     *workpool.Pool
	server   *httpapi.Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// New constructs a daemon with initialized dependencies. The API server is
// created here so it can report daemon status.
func New(cfg *config.Config, registry *jobs.Store, store *artifacts.Store, pool *workpool.Pool, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || registry == nil || store == nil || pool == nil {
		return nil, errors.New("daemon requires config, registry, artifact store, and worker pool")
	}

	lockPath := filepath.Join(cfg.Paths.ArtifactRoot, "subgend.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		registry: registry,
		store:    store,
		pool:     pool,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.server = httpapi.New(cfg, registry, store, pool, d, logger)
	return d, nil
}

// Start acquires the instance lock and launches the pool and API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another subgend instance already owns the artifact root")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if err := d.pool.Start(runCtx); err != nil {
		d.release()
		return fmt.Errorf("start worker pool: %w", err)
	}
	if err := d.server.Start(runCtx); err != nil {
		d.pool.Close()
		d.release()
		return fmt.Errorf("start api server: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("subgend started",
		logging.String("lock", d.lockPath),
		logging.String("artifact_root", d.cfg.Paths.ArtifactRoot),
		logging.Int("workers", d.pool.Workers()),
	)
	return nil
}

// Stop shuts down the API server, drains the pool, and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.running.Store(false)

	d.server.Stop()
	d.pool.Close()
	d.release()
	d.logger.Info("subgend stopped")
}

// Status reports a runtime snapshot for the API and CLI.
func (d *Daemon) Status() api.DaemonStatus {
	return api.DaemonStatus{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		ArtifactRoot: d.cfg.Paths.ArtifactRoot,
		LockFilePath: d.lockPath,
		Workers:      d.pool.Workers(),
		QueueDepth:   d.pool.Depth(),
		QueueSize:    d.pool.QueueSize(),
		Jobs:         len(d.registry.List()),
	}
}

// Addr returns the API server's bound address.
func (d *Daemon) Addr() string {
	return d.server.Addr()
}

func (d *Daemon) release() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("release lock", logging.Error(err))
	}
}
