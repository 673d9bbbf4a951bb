package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/gofrs/flock"

	"spyglass/internal/bookmarks"
	"spyglass/internal/config"
	"spyglass/internal/frigate"
	"spyglass/internal/logging"
	"spyglass/internal/media"
)

// Daemon owns the HTTP API lifecycle and enforces single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *bookmarks.Store
	client  *frigate.Client
	source  *media.Source
	loc     *time.Location
	version string

	lockPath string
	lock     *flock.Flock

	api *apiServer

	running   atomic.Bool
	startedAt time.Time
	cancel    context.CancelFunc

	done     chan struct{}
	stopOnce sync.Once
}

// Status represents daemon runtime information.
type Status struct {
	Running        bool
	PID            int
	Version        string
	UptimeSeconds  int64
	Bind           string
	FrigateURL     string
	LockFilePath   string
	BookmarkDBPath string
	BookmarkCount  int
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *bookmarks.Store, client *frigate.Client, source *media.Source, logger *slog.Logger, version string) (*Daemon, error) {
	if cfg == nil || store == nil || client == nil || source == nil {
		return nil, errors.New("daemon requires config, store, client, and media source")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	lockPath := cfg.LockPath()
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		client:   client,
		source:   source,
		loc:      loc,
		version:  version,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
		done:     make(chan struct{}),
	}

	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// Start acquires the instance lock and begins serving the HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := d.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another spyglassd instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.api.start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return err
	}
	d.cancel = cancel

	d.startedAt = time.Now()
	d.running.Store(true)
	d.logger.Info("daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops the HTTP API, releases the instance lock, and signals Done.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.stopOnce.Do(func() { close(d.done) })
	d.logger.Info("daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Done reports shutdown, so a host process can exit when an IPC stop lands.
func (d *Daemon) Done() <-chan struct{} {
	return d.done
}

// Addr returns the HTTP API listen address while the daemon is running.
func (d *Daemon) Addr() string {
	if d.api == nil {
		return ""
	}
	return d.api.address()
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:        d.running.Load(),
		PID:            os.Getpid(),
		Version:        d.version,
		Bind:           d.cfg.Server.Bind,
		FrigateURL:     d.cfg.Frigate.URL,
		LockFilePath:   d.lockPath,
		BookmarkDBPath: d.store.Path(),
	}
	if status.Running {
		status.UptimeSeconds = int64(time.Since(d.startedAt).Seconds())
		if addr := d.Addr(); addr != "" {
			status.Bind = addr
		}
	}
	if count, err := d.store.Count(ctx); err == nil {
		status.BookmarkCount = count
	}
	return status
}
