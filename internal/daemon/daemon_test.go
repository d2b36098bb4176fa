package daemon_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"wordcore/internal/api"
	"wordcore/internal/config"
	"wordcore/internal/daemon"
	"wordcore/internal/ipc"
	"wordcore/internal/logging"
	"wordcore/internal/services"
	"wordcore/internal/testsupport"
)

func newConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	return cfg
}

func newDaemon(t *testing.T, cfg *config.Config) (*daemon.Daemon, string) {
	t.Helper()
	st := testsupport.MustOpenStore(t, cfg)
	svc, err := api.New(cfg, st, logging.NewNop())
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	d, err := daemon.New(cfg, svc, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	return d, cfg.Paths.SocketPath
}

func TestDaemonStartStop(t *testing.T) {
	d, socket := newDaemon(t, newConfig(t))
	t.Cleanup(d.Stop)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping daemon test: %v", err)
		}
		t.Fatalf("Start failed: %v", err)
	}
	status := d.Status()
	if !status.Running || status.StartedAt.IsZero() {
		t.Fatalf("expected daemon to report running, got %+v", status)
	}

	// Second start should fail
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	if _, err := client.PlanToday(42); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found over socket, got %v", err)
	}
	client.Close()

	d.Stop()
	if d.Status().Running {
		t.Fatal("expected daemon to be stopped")
	}
	if _, err := os.Stat(socket); !os.IsNotExist(err) {
		t.Fatalf("expected socket removed, got %v", err)
	}
}

func TestDaemonSingleInstance(t *testing.T) {
	cfg := newConfig(t)
	first, _ := newDaemon(t, cfg)
	t.Cleanup(first.Stop)
	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping daemon test: %v", err)
		}
		t.Fatalf("Start failed: %v", err)
	}

	second, _ := newDaemon(t, cfg)
	if err := second.Start(ctx); err == nil || !strings.Contains(err.Error(), "already running") {
		t.Fatalf("expected lock conflict, got %v", err)
	}
	if second.Status().Running {
		t.Fatal("second daemon should not report running")
	}
}

func TestNewRequiresService(t *testing.T) {
	if _, err := daemon.New(newConfig(t), nil, nil); err == nil {
		t.Fatal("expected daemon.New to reject a nil service")
	}
}
