package testsupport

import (
	"path/filepath"
	"testing"

	"spyglass/internal/config"
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
	cfgVal.Frigate.URL = "http://frigate.test:5000"
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.Browse.Timezone = "UTC"
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

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

// WithFrigateURL points the test config at a live server, usually httptest.
func WithFrigateURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Frigate.URL = url
	}
}

// WithAPIToken enables bearer authentication on the test config.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.APIToken = token
	}
}

// WithTimezone overrides the browse timezone on the test config.
func WithTimezone(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Browse.Timezone = name
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
