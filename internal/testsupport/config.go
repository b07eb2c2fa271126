package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"bilistage/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	cfg *config.Config
}

// NewConfig produces a config whose every path lives under a per-test temp
// directory. The directories themselves are created.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Home = base
	cfgVal.Paths = config.Paths{
		CacheDir:         filepath.Join(base, "cache"),
		MediaSettingsDir: filepath.Join(base, "media"),
		CookieDir:        filepath.Join(base, "cookie"),
		LibraryDir:       filepath.Join(base, "library"),
		LogDir:           filepath.Join(base, "logs"),
		FillerDir:        filepath.Join(base, "part"),
		FillerIndex:      filepath.Join(base, "part.json"),
		HistoryDB:        filepath.Join(base, "uploads.db"),
	}

	builder := &configBuilder{cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithFillerNames sets the configured filler groups.
func WithFillerNames(names ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Filler.Names = names
	}
}

// WriteSettings writes a media settings document for name into the config's
// media settings directory.
func WriteSettings(t testing.TB, cfg *config.Config, name, body string) string {
	t.Helper()
	path := cfg.MediaSettingsPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir settings dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write settings %s: %v", name, err)
	}
	return path
}
