package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// CheckHealth returns diagnostic information about the database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	ctx = ensureContext(ctx)
	health := DatabaseHealth{DBPath: s.path, RowCounts: map[string]int{}}

	if s.path == "" {
		return health, errors.New("database path is unknown")
	}
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return health, nil
		}
		return health, fmt.Errorf("stat database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	connCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping database: %w", err)
	}
	health.DatabaseReadable = true

	version, err := s.readSchemaVersion(connCtx)
	if err != nil {
		health.Error = err.Error()
		return health, err
	}
	health.SchemaVersion = version

	for _, table := range contractTables {
		var exists int
		if err := s.db.QueryRowContext(connCtx,
			"SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&exists); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("query table info: %w", err)
		}
		if exists == 0 {
			health.MissingTables = append(health.MissingTables, table)
			continue
		}
		var count int
		if err := s.db.QueryRowContext(connCtx, "SELECT COUNT(1) FROM "+table).Scan(&count); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("count %s: %w", table, err)
		}
		health.RowCounts[table] = count
	}

	var integrityResult string
	if err := s.db.QueryRowContext(connCtx, "PRAGMA integrity_check").Scan(&integrityResult); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrityResult, "ok")

	return health, nil
}

// Backup writes a consistent copy of the database into dir using VACUUM INTO.
// An exclusive lock file in dir keeps concurrent backups from interleaving.
func (s *Store) Backup(ctx context.Context, dir string) (string, error) {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(dir) == "" {
		return "", errors.New("backup directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, ".backup.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return "", fmt.Errorf("acquire backup lock: %w", err)
	}
	if !locked {
		return "", errors.New("another backup is in progress")
	}
	defer func() { _ = lock.Unlock() }()

	target := filepath.Join(dir, BackupFileName(s.clock()))
	if _, err := os.Stat(target); err == nil {
		return "", fmt.Errorf("backup %s already exists", target)
	}
	if _, err := s.execWithRetry(ctx, "VACUUM INTO ?", target); err != nil {
		return "", fmt.Errorf("vacuum into %s: %w", target, err)
	}
	return target, nil
}

// BackupPattern matches files produced by Backup.
const BackupPattern = "wordcore-*.db"

// BackupFileName returns the timestamped backup name for now.
func BackupFileName(now time.Time) string {
	return "wordcore-" + now.UTC().Format("20060102T150405Z") + ".db"
}
