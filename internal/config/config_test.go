package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"spyglass/internal/config"
)

func TestLoadDefaultsUseEnvURLAndExpandPaths(t *testing.T) {
	t.Setenv("FRIGATE_URL", "http://frigate.local:5000/")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

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

	if cfg.Frigate.URL != "http://frigate.local:5000" {
		t.Fatalf("expected trailing slash trimmed from env url, got %q", cfg.Frigate.URL)
	}
	wantState := filepath.Join(tempHome, ".local", "share", "spyglass")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Server.Bind != "127.0.0.1:5170" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if cfg.Server.APIToken != "" {
		t.Fatalf("expected empty api token, got %q", cfg.Server.APIToken)
	}
	if cfg.Browse.ItemLimit != 50 || cfg.Browse.AllLimit != 10000 {
		t.Fatalf("unexpected browse limits: %d/%d", cfg.Browse.ItemLimit, cfg.Browse.AllLimit)
	}
	if cfg.Browse.VisibilityFloor != 0.1 {
		t.Fatalf("unexpected visibility floor: %g", cfg.Browse.VisibilityFloor)
	}
	if cfg.Browse.DrilldownMinEvents != 10 {
		t.Fatalf("unexpected drilldown threshold: %d", cfg.Browse.DrilldownMinEvents)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging defaults: %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	}
	if !strings.HasPrefix(cfg.SocketPath(), cfg.Paths.StateDir) {
		t.Fatalf("socket path %q should live in state dir", cfg.SocketPath())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
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
	configPath := filepath.Join(t.TempDir(), "spyglass.toml")

	type payload struct {
		Frigate struct {
			URL            string `toml:"url"`
			TimeoutSeconds int    `toml:"timeout_seconds"`
		} `toml:"frigate"`
		Server struct {
			Bind     string `toml:"bind"`
			APIToken string `toml:"api_token"`
		} `toml:"server"`
		Browse struct {
			ItemLimit int    `toml:"item_limit"`
			Timezone  string `toml:"timezone"`
		} `toml:"browse"`
	}
	custom := payload{}
	custom.Frigate.URL = "https://nvr.example.com"
	custom.Frigate.TimeoutSeconds = 3
	custom.Server.Bind = "0.0.0.0:9000"
	custom.Server.APIToken = "secret"
	custom.Browse.ItemLimit = 25
	custom.Browse.Timezone = "UTC"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Frigate.URL != "https://nvr.example.com" {
		t.Fatalf("unexpected url: %q", cfg.Frigate.URL)
	}
	if cfg.Timeout().Seconds() != 3 {
		t.Fatalf("unexpected timeout: %v", cfg.Timeout())
	}
	if cfg.Server.Bind != "0.0.0.0:9000" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if cfg.Browse.ItemLimit != 25 {
		t.Fatalf("unexpected item limit: %d", cfg.Browse.ItemLimit)
	}
	if cfg.Browse.AllLimit != 10000 {
		t.Fatalf("expected all limit default, got %d", cfg.Browse.AllLimit)
	}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location returned error: %v", err)
	}
	if loc.String() != "UTC" {
		t.Fatalf("unexpected location: %v", loc)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name     string
		contents string
		fragment string
	}{
		{
			name:     "missing url",
			contents: "[frigate]\nurl = \"\"\n",
			fragment: "frigate url is required",
		},
		{
			name:     "bad scheme",
			contents: "[frigate]\nurl = \"ftp://nvr\"\n",
			fragment: "http or https",
		},
		{
			name:     "bad bind",
			contents: "[frigate]\nurl = \"http://nvr:5000\"\n\n[server]\nbind = \"nonsense\"\n",
			fragment: "host:port",
		},
		{
			name:     "all limit below item limit",
			contents: "[frigate]\nurl = \"http://nvr:5000\"\n\n[browse]\nitem_limit = 100\nall_limit = 50\n",
			fragment: "all_limit",
		},
		{
			name:     "visibility floor above one",
			contents: "[frigate]\nurl = \"http://nvr:5000\"\n\n[browse]\nvisibility_floor = 1.5\n",
			fragment: "visibility_floor",
		},
		{
			name:     "unknown timezone",
			contents: "[frigate]\nurl = \"http://nvr:5000\"\n\n[browse]\ntimezone = \"Mars/Olympus\"\n",
			fragment: "timezone",
		},
		{
			name:     "unknown level",
			contents: "[frigate]\nurl = \"http://nvr:5000\"\n\n[logging]\nlevel = \"loud\"\n",
			fragment: "logging level",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.contents), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.fragment) {
				t.Fatalf("expected %q in error %q", tc.fragment, err)
			}
		})
	}
}

func TestEnvTokenFallback(t *testing.T) {
	t.Setenv("FRIGATE_URL", "http://nvr:5000")
	t.Setenv("SPYGLASS_API_TOKEN", "env-token")
	t.Setenv("HOME", t.TempDir())

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.APIToken != "env-token" {
		t.Fatalf("expected token from env, got %q", cfg.Server.APIToken)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("FRIGATE_URL", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Frigate.URL != "http://frigate.local:5000" {
		t.Fatalf("unexpected sample url: %q", cfg.Frigate.URL)
	}
	if !cfg.Server.EnableGzip {
		t.Fatal("expected sample to enable gzip")
	}
}
