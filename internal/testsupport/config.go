package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"wordcore/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.BackupDir = filepath.Join(base, "backups")
	cfgVal.Paths.SocketPath = filepath.Join(base, "wordcore.sock")
	cfgVal.Store.RetryInitialBackoffMS = 1
	cfgVal.Store.RetryMaxBackoffMS = 5

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithPolicy overrides the default parent settings on the test config.
func WithPolicy(newLimit, reviewLimit int, threshold float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Policy.DailyNewLimit = newLimit
		b.cfg.Policy.DailyReviewLimit = reviewLimit
		b.cfg.Policy.CorrectionAutoAcceptThreshold = threshold
	}
}

// WithDictionary writes words to a dictionary file and points the import
// section at it.
func WithDictionary(words ...string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "dictionary.txt")
		var content []byte
		for _, w := range words {
			content = append(content, w...)
			content = append(content, '\n')
		}
		if err := os.WriteFile(path, content, 0o644); err != nil {
			b.t.Fatalf("write dictionary: %v", err)
		}
		b.cfg.Import.DictionaryPath = path
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
