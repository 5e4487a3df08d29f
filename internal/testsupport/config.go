package testsupport

import (
	"path/filepath"
	"testing"

	"sedgen/internal/config"
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
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Watch.Dir = filepath.Join(base, "incoming")
	cfgVal.Watch.APIBind = "127.0.0.1:0"

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

// WithReferenceDir points the config at on-disk zeropoint tables instead of
// the embedded copies.
func WithReferenceDir(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.ReferenceDir = path
	}
}

// WithNormalizeColumn sets the magnitude column used to rescale normalized
// spectra on the test config.
func WithNormalizeColumn(column string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Pipeline.NormalizeColumn = column
	}
}

// WithDebounceSeconds overrides the watch debounce window on the test config.
func WithDebounceSeconds(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Watch.DebounceSeconds = seconds
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
