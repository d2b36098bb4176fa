package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStore()
	c.normalizeSRS()
	c.normalizePlanner()
	c.normalizePolicy()
	if err := c.normalizeImport(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("WORDCORE_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.BackupDir) == "" {
		c.Paths.BackupDir = filepath.Join(c.Paths.DataDir, "backups")
	}
	if c.Paths.BackupDir, err = expandPath(c.Paths.BackupDir); err != nil {
		return fmt.Errorf("paths.backup_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SocketPath) == "" {
		c.Paths.SocketPath = filepath.Join(c.Paths.DataDir, defaultSocketName)
	}
	if c.Paths.SocketPath, err = expandPath(c.Paths.SocketPath); err != nil {
		return fmt.Errorf("paths.socket_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeStore() {
	if c.Store.BusyTimeoutMS <= 0 {
		c.Store.BusyTimeoutMS = defaultBusyTimeoutMS
	}
	if c.Store.RetryAttempts <= 0 {
		c.Store.RetryAttempts = defaultRetryAttempts
	}
	if c.Store.RetryInitialBackoffMS <= 0 {
		c.Store.RetryInitialBackoffMS = defaultRetryInitialBackoffMS
	}
	if c.Store.RetryMaxBackoffMS <= 0 {
		c.Store.RetryMaxBackoffMS = defaultRetryMaxBackoffMS
	}
}

func (c *Config) normalizeSRS() {
	if c.SRS.DefaultEase == 0 {
		c.SRS.DefaultEase = defaultEase
	}
	if c.SRS.DefaultIntervalDays == 0 {
		c.SRS.DefaultIntervalDays = defaultIntervalDays
	}
	if c.SRS.MinEase == 0 {
		c.SRS.MinEase = defaultMinEase
	}
	if c.SRS.MaxEase == 0 {
		c.SRS.MaxEase = defaultMaxEase
	}
	if c.SRS.MaxIntervalDays == 0 {
		c.SRS.MaxIntervalDays = defaultMaxIntervalDays
	}
	if c.SRS.MasteryStreak == 0 {
		c.SRS.MasteryStreak = defaultMasteryStreak
	}
	if c.SRS.MasteryEase == 0 {
		c.SRS.MasteryEase = defaultMasteryEase
	}
}

func (c *Config) normalizePlanner() {
	if c.Planner.RecentErrorWindowDays == 0 {
		c.Planner.RecentErrorWindowDays = defaultRecentErrorWindowDays
	}
}

func (c *Config) normalizePolicy() {
	c.Policy.OCRStrength = strings.ToUpper(strings.TrimSpace(c.Policy.OCRStrength))
	if c.Policy.OCRStrength == "" {
		c.Policy.OCRStrength = defaultOCRStrength
	}
	c.Policy.CorrectionAutoAcceptThreshold = math.Round(c.Policy.CorrectionAutoAcceptThreshold*100) / 100
}

func (c *Config) normalizeImport() error {
	if c.Import.MaxCandidates <= 0 {
		c.Import.MaxCandidates = defaultMaxCandidates
	}
	if c.Import.MaxFileBytes <= 0 {
		c.Import.MaxFileBytes = defaultMaxFileBytes
	}
	c.Import.DictionaryPath = strings.TrimSpace(c.Import.DictionaryPath)
	if c.Import.DictionaryPath != "" {
		var err error
		if c.Import.DictionaryPath, err = expandPath(c.Import.DictionaryPath); err != nil {
			return fmt.Errorf("import.dictionary_path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("WORDCORE_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	if value, ok := os.LookupEnv("WORDCORE_LOG_FORMAT"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Format = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
