package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
)

// Validate checks the normalized configuration for unusable values.
func (c *Config) Validate() error {
	if err := c.validateFrigate(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateBrowse(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateFrigate() error {
	if c.Frigate.URL == "" {
		return errors.New("frigate url is required (set [frigate] url or FRIGATE_URL)")
	}
	parsed, err := url.Parse(c.Frigate.URL)
	if err != nil {
		return fmt.Errorf("frigate url is invalid: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("frigate url must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("frigate url is missing a host")
	}
	return nil
}

func (c *Config) validateServer() error {
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server bind must be host:port: %w", err)
	}
	return nil
}

func (c *Config) validateBrowse() error {
	if c.Browse.AllLimit < c.Browse.ItemLimit {
		return fmt.Errorf("browse all_limit (%d) must be at least item_limit (%d)", c.Browse.AllLimit, c.Browse.ItemLimit)
	}
	if c.Browse.VisibilityFloor > 1 {
		return fmt.Errorf("browse visibility_floor must be within (0, 1], got %g", c.Browse.VisibilityFloor)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging level %q is not recognized", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json", "text":
	default:
		return fmt.Errorf("logging format %q is not recognized", c.Logging.Format)
	}
	return nil
}
