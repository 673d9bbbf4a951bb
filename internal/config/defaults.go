package config

const (
	defaultFrigateTimeoutSeconds = 10
	defaultBind                  = "127.0.0.1:5170"
	defaultStateDir              = "~/.local/share/spyglass"
	defaultLogDir                = "~/.local/share/spyglass/logs"
	defaultItemLimit             = 50
	defaultAllLimit              = 10000
	defaultVisibilityFloor       = 0.1
	defaultDrilldownMinEvents    = 10
	defaultTimezone              = "Local"
	defaultLogLevel              = "info"
	defaultLogFormat             = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Frigate: Frigate{
			TimeoutSeconds: defaultFrigateTimeoutSeconds,
		},
		Server: Server{
			Bind: defaultBind,
		},
		Browse: Browse{
			ItemLimit:          defaultItemLimit,
			AllLimit:           defaultAllLimit,
			VisibilityFloor:    defaultVisibilityFloor,
			DrilldownMinEvents: defaultDrilldownMinEvents,
			Timezone:           defaultTimezone,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
