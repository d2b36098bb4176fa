// Package logs reads daemon log files for the CLI: the last N lines of the
// current file, optionally followed as new lines are appended.
//
// Lines are matched with a caller supplied Filter so the CLI can narrow output
// to a single learner without parsing every log format the daemon supports.
package logs
