package preflight

import (
	"context"
	"strings"

	"wordcore/internal/config"
	"wordcore/internal/store"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every applicable check. A nil store skips the database
// checks.
func RunAll(ctx context.Context, cfg *config.Config, st *store.Store) []Result {
	if cfg == nil {
		return nil
	}

	results := CheckDirectories(cfg)

	if strings.TrimSpace(cfg.Import.DictionaryPath) != "" {
		results = append(results, CheckFileReadable("Dictionary", cfg.Import.DictionaryPath))
	}

	if st != nil {
		results = append(results, CheckDatabase(ctx, st)...)
	}

	results = append(results, CheckDaemonSocket(cfg.Paths.SocketPath))
	return results
}

// CheckDirectories checks the data, log, and backup directories.
func CheckDirectories(cfg *config.Config) []Result {
	return []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDirectoryAccess("Backup directory", cfg.Paths.BackupDir),
	}
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
