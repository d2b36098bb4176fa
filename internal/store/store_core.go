package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"wordcore/internal/config"
	"wordcore/internal/services"
)

// Store manages wordcore persistence backed by SQLite.
type Store struct {
	db    *sql.DB
	path  string
	retry retryPolicy
	clock func() time.Time
}

// Tx is a write transaction handed to InTx callbacks. Every method runs on the
// transaction connection; callers must not use the parent Store inside fn.
type Tx struct {
	tx    *sql.Tx
	clock func() time.Time
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type retryPolicy struct {
	attempts       int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

const (
	sqliteBusyCode             = 5
	sqliteConstraintUnique     = 2067
	sqliteConstraintForeignKey = 787
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func isUniqueConstraintErr(err error) bool {
	return hasConstraintCode(err, sqliteConstraintUnique, "unique constraint failed")
}

func isForeignKeyErr(err error) bool {
	return hasConstraintCode(err, sqliteConstraintForeignKey, "foreign key constraint failed")
}

// hasConstraintCode matches the extended result code when the driver exposes
// one and falls back to the message for primary-only codes.
func hasConstraintCode(err error, code int, message string) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() > 0xff {
		return coder.Code() == code
	}
	return strings.Contains(strings.ToLower(err.Error()), message)
}

// retryOnBusy reruns op with exponential backoff while SQLite reports
// contention. Exhausted retries surface as services.ErrTransient.
func (s *Store) retryOnBusy(ctx context.Context, op func() error) error {
	delay := s.retry.initialBackoff
	var lastErr error
	for attempt := 0; attempt < s.retry.attempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) {
			return lastErr
		}
		if attempt == s.retry.attempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= s.retry.maxBackoff {
			delay = next
		} else {
			delay = s.retry.maxBackoff
		}
	}
	return services.Wrap(services.ErrTransient, "store", "retry", fmt.Sprintf("database busy after %d attempts", s.retry.attempts), lastErr)
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := s.retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// InTx runs fn inside a single write transaction. A busy database retries the
// whole callback, so fn must not retain side effects outside the transaction.
func (s *Store) InTx(ctx context.Context, fn func(*Tx) error) error {
	ctx = ensureContext(ctx)
	return s.retryOnBusy(ctx, func() error {
		sqlTx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		if err := fn(&Tx{tx: sqlTx, clock: s.clock}); err != nil {
			_ = sqlTx.Rollback()
			return err
		}
		if err := sqlTx.Commit(); err != nil {
			_ = sqlTx.Rollback()
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
}

// Open initializes or connects to the wordcore database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Connection-scoped pragmas (foreign_keys) only hold with a single connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.Store.BusyTimeoutMS),
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:   db,
		path: dbPath,
		retry: retryPolicy{
			attempts:       cfg.Store.RetryAttempts,
			initialBackoff: time.Duration(cfg.Store.RetryInitialBackoffMS) * time.Millisecond,
			maxBackoff:     time.Duration(cfg.Store.RetryMaxBackoffMS) * time.Millisecond,
		},
		clock: func() time.Time { return time.Now().UTC() },
	}
	if store.retry.attempts <= 0 {
		store.retry.attempts = 1
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// SetClock overrides the timestamp source used for created_at/updated_at.
func (s *Store) SetClock(clock func() time.Time) {
	if clock == nil {
		clock = time.Now
	}
	s.clock = func() time.Time { return clock().UTC() }
}

// Now returns the current time from the store clock.
func (s *Store) Now() time.Time {
	return s.clock()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
