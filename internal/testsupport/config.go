package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.AnnotationsDir = filepath.Join(base, "annotations")
	cfg.Paths.VideosDir = filepath.Join(base, "videos")
	cfg.Paths.FramesDir = ""
	cfg.Paths.OutputDir = filepath.Join(base, "prepared")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Selection.CompletenessThreshold = 5
	cfg.Prep.Seed = 1

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithFramesDir points the config at a frames root under the test base.
func WithFramesDir() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Paths.FramesDir = filepath.Join(filepath.Dir(cfg.Paths.VideosDir), "frames")
	}
}

// WithCompletenessThreshold overrides the completeness floor.
func WithCompletenessThreshold(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Selection.CompletenessThreshold = n
	}
}

// WithWorkers sets the batch worker count.
func WithWorkers(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Prep.Workers = n
	}
}

// WithSeed sets the batch shuffle seed.
func WithSeed(seed int64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Prep.Seed = seed
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.VideosDir)
}
