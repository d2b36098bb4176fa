package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"wordcore/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "wordcore")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.SocketPath != filepath.Join(wantData, "wordcore.sock") {
		t.Fatalf("unexpected socket path: %q", cfg.Paths.SocketPath)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "wordcore.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.SRS.DefaultEase != 2.5 || cfg.SRS.MinEase != 1.3 || cfg.SRS.MaxIntervalDays != 180 {
		t.Fatalf("unexpected srs defaults: %+v", cfg.SRS)
	}
	if cfg.Policy.DailyNewLimit != 8 || cfg.Policy.DailyReviewLimit != 20 {
		t.Fatalf("unexpected policy defaults: %+v", cfg.Policy)
	}
	if cfg.Policy.CorrectionAutoAcceptThreshold != 0.85 {
		t.Fatalf("unexpected threshold: %v", cfg.Policy.CorrectionAutoAcceptThreshold)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir, cfg.Paths.BackupDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "wordcore.toml")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		Policy struct {
			DailyNewLimit int    `toml:"daily_new_limit"`
			OCRStrength   string `toml:"ocr_strength"`
		} `toml:"policy"`
		Logging struct {
			Level string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.Policy.DailyNewLimit = 12
	custom.Policy.OCRStrength = "accurate"
	custom.Logging.Level = "DEBUG"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.DataDir != filepath.Join(tempDir, "data") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Paths.SocketPath != filepath.Join(tempDir, "data", "wordcore.sock") {
		t.Fatalf("expected socket under data dir, got %q", cfg.Paths.SocketPath)
	}
	if cfg.Policy.DailyNewLimit != 12 {
		t.Fatalf("expected daily new limit 12, got %d", cfg.Policy.DailyNewLimit)
	}
	if cfg.Policy.OCRStrength != "ACCURATE" {
		t.Fatalf("expected canonical ocr strength, got %q", cfg.Policy.OCRStrength)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowercase log level, got %q", cfg.Logging.Level)
	}
	if cfg.Policy.DailyReviewLimit != 20 {
		t.Fatalf("expected untouched default review limit, got %d", cfg.Policy.DailyReviewLimit)
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "wordcore.toml")
	if err := os.WriteFile(configPath, []byte("[logging]\nlevel = \"warn\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	envData := filepath.Join(tempDir, "env-data")
	t.Setenv("WORDCORE_DATA_DIR", envData)
	t.Setenv("WORDCORE_LOG_LEVEL", "error")
	t.Setenv("WORDCORE_LOG_FORMAT", "JSON")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DataDir != envData {
		t.Errorf("expected data dir from env, got %q", cfg.Paths.DataDir)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected level from env, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected format from env, got %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "wordcore.toml")
	if err := os.WriteFile(configPath, []byte("[policy\ndaily_new_limit = "), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "correction_auto_accept_threshold") {
		t.Fatalf("sample config missing policy threshold: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Policy.DailyNewLimit != 8 {
		t.Fatalf("expected sample daily_new_limit 8, got %d", cfg.Policy.DailyNewLimit)
	}
	if !strings.Contains(cfg.Paths.DataDir, "wordcore") {
		t.Fatalf("expected data dir to contain wordcore, got %q", cfg.Paths.DataDir)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"new limit too high", func(c *config.Config) { c.Policy.DailyNewLimit = 41 }},
		{"review limit zero", func(c *config.Config) { c.Policy.DailyReviewLimit = 0 }},
		{"threshold low", func(c *config.Config) { c.Policy.CorrectionAutoAcceptThreshold = 0.3 }},
		{"ocr strength", func(c *config.Config) { c.Policy.OCRStrength = "TURBO" }},
		{"min ease", func(c *config.Config) { c.SRS.MinEase = 0 }},
		{"default ease out of range", func(c *config.Config) { c.SRS.DefaultEase = 4 }},
		{"max interval", func(c *config.Config) { c.SRS.MaxIntervalDays = 0 }},
		{"retry backoff", func(c *config.Config) { c.Store.RetryMaxBackoffMS = 1 }},
		{"correction penalty", func(c *config.Config) { c.Import.CorrectionPenalty = 1 }},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"dictionary missing", func(c *config.Config) { c.Import.DictionaryPath = "/nonexistent/words.txt" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
