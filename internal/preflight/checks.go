package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"wordcore/internal/store"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFileReadable verifies that a regular file exists and is readable.
func CheckFileReadable(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable)", path)}
}

// CheckDatabase reports integrity and schema results from store.CheckHealth.
func CheckDatabase(ctx context.Context, st *store.Store) []Result {
	health, err := st.CheckHealth(ctx)
	if err != nil {
		return []Result{{Name: "Database", Detail: fmt.Sprintf("%s (error: %v)", health.DBPath, err)}}
	}
	if !health.DatabaseExists {
		return []Result{{Name: "Database", Detail: fmt.Sprintf("%s (error: does not exist)", health.DBPath)}}
	}

	results := []Result{{Name: "Database", Passed: true, Detail: health.DBPath}}
	if len(health.MissingTables) > 0 {
		results = append(results, Result{
			Name:   "Schema",
			Detail: fmt.Sprintf("version %d, missing tables: %s", health.SchemaVersion, strings.Join(health.MissingTables, ", ")),
		})
	} else {
		results = append(results, Result{Name: "Schema", Passed: true, Detail: fmt.Sprintf("version %d", health.SchemaVersion)})
	}
	if health.IntegrityCheck {
		results = append(results, Result{Name: "Integrity", Passed: true, Detail: "ok"})
	} else {
		results = append(results, Result{Name: "Integrity", Detail: "PRAGMA integrity_check reported problems"})
	}
	return results
}

// CheckDaemonSocket reports whether a daemon answers on path. A missing socket
// passes: the CLI works in-process without the daemon.
func CheckDaemonSocket(path string) Result {
	const name = "Daemon socket"
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Passed: true, Detail: "not configured"}
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (not running)", path)}
	}
	conn, err := net.DialTimeout("unix", path, time.Second)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stale socket: %v)", path, err)}
	}
	_ = conn.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (listening)", path)}
}
