package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and socket configuration.
type Paths struct {
	DataDir    string `toml:"data_dir"`
	LogDir     string `toml:"log_dir"`
	BackupDir  string `toml:"backup_dir"`
	SocketPath string `toml:"socket_path"`
}

// Store contains SQLite connection and contention settings.
type Store struct {
	BusyTimeoutMS         int `toml:"busy_timeout_ms"`
	RetryAttempts         int `toml:"retry_attempts"`
	RetryInitialBackoffMS int `toml:"retry_initial_backoff_ms"`
	RetryMaxBackoffMS     int `toml:"retry_max_backoff_ms"`
	// BackupRetentionDays prunes backups older than this many days; 0 keeps all.
	BackupRetentionDays int `toml:"backup_retention_days"`
}

// SRS contains the spaced repetition constants consumed by the engine.
type SRS struct {
	DefaultEase         float64 `toml:"default_ease"`
	DefaultIntervalDays int     `toml:"default_interval_days"`
	PassEaseBonus       float64 `toml:"pass_ease_bonus"`
	FailEasePenalty     float64 `toml:"fail_ease_penalty"`
	MinEase             float64 `toml:"min_ease"`
	MaxEase             float64 `toml:"max_ease"`
	MaxIntervalDays     int     `toml:"max_interval_days"`
	// MasteryStreak is the consecutive pass count required for MASTERED.
	MasteryStreak int `toml:"mastery_streak"`
	// MasteryEase is the minimum ease required for MASTERED.
	MasteryEase float64 `toml:"mastery_ease"`
}

// Planner contains the priority weights used to rank due reviews.
type Planner struct {
	RecentErrorWindowDays int     `toml:"recent_error_window_days"`
	OverdueWeight         float64 `toml:"overdue_weight"`
	LapseWeight           float64 `toml:"lapse_weight"`
	RecentFailWeight      float64 `toml:"recent_fail_weight"`
}

// Policy contains the default parent settings applied when a learner has no
// stored settings row.
type Policy struct {
	DailyNewLimit                 int     `toml:"daily_new_limit"`
	DailyReviewLimit              int     `toml:"daily_review_limit"`
	CorrectionAutoAcceptThreshold float64 `toml:"correction_auto_accept_threshold"`
	StrictMode                    bool    `toml:"strict_mode"`
	OCRStrength                   string  `toml:"ocr_strength"`
}

// Import contains candidate ingestion limits and scorer inputs.
type Import struct {
	MaxCandidates int   `toml:"max_candidates"`
	MaxFileBytes  int64 `toml:"max_file_bytes"`
	// DictionaryPath optionally points at a newline-separated word list that
	// extends the built-in dictionary used for correction suggestions.
	DictionaryPath string `toml:"dictionary_path"`
	// CorrectionPenalty caps confidence at 1-penalty for candidates the learner
	// has corrected before.
	CorrectionPenalty float64 `toml:"correction_penalty"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for wordcore.
//
// Configuration sections by subsystem:
//   - Paths: data, log, and backup directories plus the daemon socket
//   - Store: SQLite busy timeout and transient retry backoff
//   - SRS: ease/interval constants and mastery thresholds
//   - Planner: due-review priority weights and the recent error window
//   - Policy: default parent settings (daily caps, auto-accept threshold)
//   - Import: candidate limits, optional dictionary, correction penalty
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Store   Store   `toml:"store"`
	SRS     SRS     `toml:"srs"`
	Planner Planner `toml:"planner"`
	Policy  Policy  `toml:"policy"`
	Import  Import  `toml:"import"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("wordcore.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data, log, and backup directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.Paths.BackupDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the SQLite database location inside the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, databaseFileName)
}

// LockPath returns the daemon single-instance lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "wordcored.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
