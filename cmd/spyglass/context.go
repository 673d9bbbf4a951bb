package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"spyglass/internal/bookmarks"
	"spyglass/internal/config"
	"spyglass/internal/frigate"
	"spyglass/internal/ipc"
	"spyglass/internal/media"
)

type commandContext struct {
	socketFlag *string
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(socketFlag, configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		socketFlag: socketFlag,
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) JSONMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) socketPath() string {
	if c.socketFlag == nil {
		return defaultSocketPath()
	}
	if strings.TrimSpace(*c.socketFlag) == "" {
		*c.socketFlag = defaultSocketPath()
	}
	return *c.socketFlag
}

func (c *commandContext) withClient(fn func(*ipc.Client) error) error {
	client, err := c.dialClient()
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}

func (c *commandContext) dialClient() (*ipc.Client, error) {
	socket := c.socketPath()
	client, err := ipc.Dial(socket)
	if err != nil {
		return nil, wrapDialError(err, socket)
	}
	return client, nil
}

// frigateClient builds a recorder client from the loaded configuration.
// Browse and event commands talk to Frigate directly so the daemon does not
// have to be running.
func (c *commandContext) frigateClient() (*frigate.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return frigate.New(cfg.Frigate.URL, frigate.WithTimeout(cfg.Timeout()))
}

func (c *commandContext) mediaSource() (*media.Source, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client, err := frigate.New(cfg.Frigate.URL, frigate.WithTimeout(cfg.Timeout()))
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return media.NewSource(client,
		media.WithLocation(loc),
		media.WithLimits(media.Limits{
			ItemLimit:          cfg.Browse.ItemLimit,
			AllLimit:           cfg.Browse.AllLimit,
			VisibilityFloor:    cfg.Browse.VisibilityFloor,
			DrilldownThreshold: cfg.Browse.DrilldownMinEvents,
		}),
	)
}

func (c *commandContext) openStore() (*bookmarks.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return bookmarks.Open(cfg)
}

// resolveIdentifierArg expands an @name argument to the bookmarked
// identifier. Plain identifiers pass through untouched.
func (c *commandContext) resolveIdentifierArg(ctx context.Context, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if !strings.HasPrefix(arg, "@") {
		return arg, nil
	}
	name := strings.TrimPrefix(arg, "@")
	if name == "" {
		return "", errors.New("bookmark name is required after @")
	}
	store, err := c.openStore()
	if err != nil {
		return "", fmt.Errorf("open bookmark store: %w", err)
	}
	defer store.Close()
	bookmark, err := store.Get(ctx, name)
	if err != nil {
		return "", err
	}
	if bookmark == nil {
		return "", fmt.Errorf("bookmark %q not found", name)
	}
	return bookmark.Identifier, nil
}

func wrapDialError(err error, socket string) error {
	switch {
	case errors.Is(err, syscall.ENOENT) || os.IsNotExist(err):
		return fmt.Errorf("connect to daemon: socket %s not found; start the daemon with `spyglass start`", socket)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("connect to daemon: socket %s refused the connection; verify the daemon is running", socket)
	default:
		return fmt.Errorf("connect to daemon: %w", err)
	}
}

func defaultSocketPath() string {
	cfg, _, _, err := config.Load("")
	if err == nil {
		return cfg.SocketPath()
	}

	stateDir, err2 := config.ExpandPath("~/.local/share/spyglass")
	if err2 != nil {
		return filepath.Join(os.TempDir(), "spyglassd.sock")
	}
	return filepath.Join(stateDir, "spyglassd.sock")
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
