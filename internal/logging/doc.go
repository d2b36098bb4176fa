// Package logging assembles structured slog loggers and formatting helpers used
// across wordcore.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so service code can tag log
// lines with user, word, and batch identifiers plus correlation IDs. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail, and a retention sweep for old log files and database backups.
package logging
