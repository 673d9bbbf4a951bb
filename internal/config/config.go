package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Frigate configures the backing recorder API.
type Frigate struct {
	// URL is the base URL of the recorder HTTP API, e.g. http://frigate.local:5000.
	URL string `toml:"url"`
	// TimeoutSeconds bounds each recorder API call.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Server configures the spyglassd HTTP API.
type Server struct {
	// Bind is the host:port the API listens on.
	Bind string `toml:"bind"`
	// APIToken enables bearer authentication when non-empty.
	APIToken string `toml:"api_token"`
	// CORSOrigins lists allowed cross-origin hosts. Empty disables CORS handling.
	CORSOrigins []string `toml:"cors_origins"`
	// EnableGzip compresses API responses.
	EnableGzip bool `toml:"enable_gzip"`
}

// Browse tunes the clip search tree builder.
type Browse struct {
	// ItemLimit caps literal event children per node.
	ItemLimit int `toml:"item_limit"`
	// AllLimit caps event children of an "All" overflow node.
	AllLimit int `toml:"all_limit"`
	// VisibilityFloor is the minimum shown/total ratio below which a
	// truncated root event list is suppressed in favour of facets.
	VisibilityFloor float64 `toml:"visibility_floor"`
	// DrilldownMinEvents is the event count a result set must exceed
	// before facet children are offered.
	DrilldownMinEvents int `toml:"drilldown_min_events"`
	// Timezone names the location used for day boundaries and titles.
	// "Local" uses the host timezone.
	Timezone string `toml:"timezone"`
}

// Paths configures state and log locations.
type Paths struct {
	// StateDir holds the bookmarks database, daemon lock, and socket.
	StateDir string `toml:"state_dir"`
	// LogDir holds daemon log files.
	LogDir string `toml:"log_dir"`
}

// Logging configures log output.
type Logging struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
	// Format is console or json.
	Format string `toml:"format"`
}

// Config captures every setting the CLI and daemon need:
//   - [frigate] recorder endpoint and timeout
//   - [server] HTTP API bind, auth token, CORS, compression
//   - [browse] tree builder thresholds and timezone
//   - [paths] state and log directories
//   - [logging] level and format
type Config struct {
	Frigate Frigate `toml:"frigate"`
	Server  Server  `toml:"server"`
	Browse  Browse  `toml:"browse"`
	Paths   Paths   `toml:"paths"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the canonical config location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/spyglass/config.toml")
}

// Load reads configuration from the provided path, or from the default
// locations when path is empty. It returns the populated config, the path
// that was consulted, and whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, resolvedPath, true, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()
		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, resolvedPath, true, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, resolvedPath, exists, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, resolvedPath, exists, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(defaultPath); err == nil {
		return defaultPath, true, nil
	}

	cwdPath, err := expandPath("./spyglass.toml")
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(cwdPath); err == nil {
		return cwdPath, true, nil
	}

	return defaultPath, false, nil
}

// Timeout returns the recorder API timeout as a duration.
func (c *Config) Timeout() time.Duration {
	if c.Frigate.TimeoutSeconds <= 0 {
		return time.Duration(defaultFrigateTimeoutSeconds) * time.Second
	}
	return time.Duration(c.Frigate.TimeoutSeconds) * time.Second
}

// Location resolves the browse timezone.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Browse.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

// SocketPath returns the daemon control socket location.
func (c *Config) SocketPath() string {
	return filepath.Join(c.Paths.StateDir, "spyglassd.sock")
}

// LockPath returns the daemon instance lock location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "spyglassd.lock")
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// CreateSample writes the annotated sample config to path.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath expands a leading tilde and returns an absolute clean path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	abs, err := filepath.Abs(filepath.Clean(trimmed))
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", path, err)
	}
	return abs, nil
}
