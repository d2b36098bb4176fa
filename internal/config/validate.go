package config

import (
	"errors"
	"fmt"
	"os"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateSRS(); err != nil {
		return err
	}
	if err := c.validatePlanner(); err != nil {
		return err
	}
	if err := c.validatePolicy(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateStore() error {
	if err := ensurePositiveMap(map[string]int{
		"store.busy_timeout_ms":          c.Store.BusyTimeoutMS,
		"store.retry_attempts":           c.Store.RetryAttempts,
		"store.retry_initial_backoff_ms": c.Store.RetryInitialBackoffMS,
		"store.retry_max_backoff_ms":     c.Store.RetryMaxBackoffMS,
	}); err != nil {
		return err
	}
	if c.Store.BackupRetentionDays < 0 {
		return errors.New("store.backup_retention_days must not be negative")
	}
	if c.Store.RetryMaxBackoffMS < c.Store.RetryInitialBackoffMS {
		return errors.New("store.retry_max_backoff_ms must be at least store.retry_initial_backoff_ms")
	}
	return nil
}

func (c *Config) validateSRS() error {
	s := c.SRS
	if s.MinEase <= 0 {
		return errors.New("srs.min_ease must be positive")
	}
	if s.MaxEase < s.MinEase {
		return errors.New("srs.max_ease must be at least srs.min_ease")
	}
	if s.DefaultEase < s.MinEase || s.DefaultEase > s.MaxEase {
		return errors.New("srs.default_ease must be between srs.min_ease and srs.max_ease")
	}
	if s.PassEaseBonus < 0 {
		return errors.New("srs.pass_ease_bonus must not be negative")
	}
	if s.FailEasePenalty < 0 {
		return errors.New("srs.fail_ease_penalty must not be negative")
	}
	if err := ensurePositiveMap(map[string]int{
		"srs.default_interval_days": s.DefaultIntervalDays,
		"srs.max_interval_days":     s.MaxIntervalDays,
		"srs.mastery_streak":        s.MasteryStreak,
	}); err != nil {
		return err
	}
	if s.MaxIntervalDays < s.DefaultIntervalDays {
		return errors.New("srs.max_interval_days must be at least srs.default_interval_days")
	}
	return nil
}

func (c *Config) validatePlanner() error {
	p := c.Planner
	if p.RecentErrorWindowDays < 0 {
		return errors.New("planner.recent_error_window_days must not be negative")
	}
	if p.OverdueWeight < 0 || p.LapseWeight < 0 || p.RecentFailWeight < 0 {
		return errors.New("planner weights must not be negative")
	}
	return nil
}

func (c *Config) validatePolicy() error {
	p := c.Policy
	if p.DailyNewLimit < 1 || p.DailyNewLimit > 40 {
		return errors.New("policy.daily_new_limit must be between 1 and 40")
	}
	if p.DailyReviewLimit < 1 || p.DailyReviewLimit > 200 {
		return errors.New("policy.daily_review_limit must be between 1 and 200")
	}
	if p.CorrectionAutoAcceptThreshold < 0.5 || p.CorrectionAutoAcceptThreshold > 0.99 {
		return errors.New("policy.correction_auto_accept_threshold must be between 0.5 and 0.99")
	}
	switch p.OCRStrength {
	case "FAST", "BALANCED", "ACCURATE":
	default:
		return fmt.Errorf("policy.ocr_strength must be FAST, BALANCED, or ACCURATE (got %q)", p.OCRStrength)
	}
	return nil
}

func (c *Config) validateImport() error {
	if c.Import.CorrectionPenalty < 0 || c.Import.CorrectionPenalty >= 1 {
		return errors.New("import.correction_penalty must be in [0, 1)")
	}
	if c.Import.DictionaryPath != "" {
		info, err := os.Stat(c.Import.DictionaryPath)
		if err != nil {
			return fmt.Errorf("import.dictionary_path: %w", err)
		}
		if info.IsDir() {
			return errors.New("import.dictionary_path must be a file")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
