package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.Frigate.URL = strings.TrimRight(strings.TrimSpace(c.Frigate.URL), "/")
	if c.Frigate.URL == "" {
		if value, ok := os.LookupEnv("FRIGATE_URL"); ok {
			c.Frigate.URL = strings.TrimRight(strings.TrimSpace(value), "/")
		}
	}
	if c.Frigate.TimeoutSeconds <= 0 {
		c.Frigate.TimeoutSeconds = defaultFrigateTimeoutSeconds
	}

	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}
	c.Server.APIToken = strings.TrimSpace(c.Server.APIToken)
	if c.Server.APIToken == "" {
		if value, ok := os.LookupEnv("SPYGLASS_API_TOKEN"); ok {
			c.Server.APIToken = strings.TrimSpace(value)
		}
	}
	origins := make([]string, 0, len(c.Server.CORSOrigins))
	for _, origin := range c.Server.CORSOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	c.Server.CORSOrigins = origins

	if c.Browse.ItemLimit <= 0 {
		c.Browse.ItemLimit = defaultItemLimit
	}
	if c.Browse.AllLimit <= 0 {
		c.Browse.AllLimit = defaultAllLimit
	}
	if c.Browse.VisibilityFloor <= 0 {
		c.Browse.VisibilityFloor = defaultVisibilityFloor
	}
	if c.Browse.DrilldownMinEvents <= 0 {
		c.Browse.DrilldownMinEvents = defaultDrilldownMinEvents
	}
	c.Browse.Timezone = strings.TrimSpace(c.Browse.Timezone)
	if c.Browse.Timezone == "" {
		c.Browse.Timezone = defaultTimezone
	}

	for _, entry := range []struct {
		value    *string
		fallback string
	}{
		{&c.Paths.StateDir, defaultStateDir},
		{&c.Paths.LogDir, defaultLogDir},
	} {
		raw := strings.TrimSpace(*entry.value)
		if raw == "" {
			raw = entry.fallback
		}
		expanded, err := expandPath(raw)
		if err != nil {
			return err
		}
		*entry.value = expanded
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}

	return nil
}
