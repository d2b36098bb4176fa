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

	"wordcore/internal/api"
	"wordcore/internal/config"
	"wordcore/internal/ipc"
	"wordcore/internal/logging"
	"wordcore/internal/preflight"
)

// Daemon serves one api.Service over the configured socket and enforces
// single-instance execution.
type Daemon struct {
	cfg    *config.Config
	api    *api.Service
	logger *slog.Logger

	lockPath string
	lock     *flock.Flock
	server   *ipc.Server

	running   atomic.Bool
	startedAt time.Time
	cancel    context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool      `json:"running"`
	PID          int       `json:"pid"`
	SocketPath   string    `json:"socket_path"`
	LockFilePath string    `json:"lock_file_path"`
	DatabasePath string    `json:"database_path"`
	StartedAt    time.Time `json:"started_at,omitempty"`
}

// New constructs a daemon around svc.
func New(cfg *config.Config, svc *api.Service, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || svc == nil {
		return nil, errors.New("daemon requires config and api service")
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		api:      svc,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock and begins serving the socket.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another wordcore daemon instance is already running")
	}

	for _, result := range preflight.Failed(preflight.CheckDirectories(d.cfg)) {
		logging.WarnWithContext(d.logger, "preflight check failed", "preflight_failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldImpact, "requests touching this path may fail"),
			logging.String(logging.FieldErrorHint, "run wordcore doctor for details"))
	}

	serverCtx, cancel := context.WithCancel(ctx)
	server, err := ipc.NewServer(serverCtx, d.cfg.Paths.SocketPath, d.api, d.logger)
	if err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start IPC server: %w", err)
	}
	server.Serve()

	d.server = server
	d.cancel = cancel
	d.startedAt = time.Now().UTC()
	d.running.Store(true)
	d.logger.Info("wordcore daemon started",
		logging.String("lock", d.lockPath),
		logging.String("socket", server.Path()),
		logging.String(logging.FieldEventType, "daemon_start"))
	return nil
}

// Stop closes the socket and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.server != nil {
		d.server.Close()
		d.server = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if err := d.lock.Unlock(); err != nil {
		logging.WarnWithContext(d.logger, "failed to release daemon lock", "daemon_lock_release_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove "+d.lockPath+" if no daemon is running"))
	}
	d.running.Store(false)
	d.logger.Info("wordcore daemon stopped", logging.String(logging.FieldEventType, "daemon_stop"))
}

// Close stops the daemon and closes the store behind the service.
func (d *Daemon) Close() error {
	d.Stop()
	return d.api.Store().Close()
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		SocketPath:   d.cfg.Paths.SocketPath,
		LockFilePath: d.lockPath,
		DatabasePath: d.api.Store().Path(),
	}
	if status.Running {
		status.StartedAt = d.startedAt
	}
	return status
}
