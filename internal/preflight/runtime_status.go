package preflight

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spyglass/internal/config"
	"spyglass/internal/frigate"
)

// CheckFrigateFromConfig evaluates recorder status from config and connectivity.
func CheckFrigateFromConfig(cfg *config.Config) Result {
	const name = "Frigate API"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if strings.TrimSpace(cfg.Frigate.URL) == "" {
		return Result{Name: name, Detail: "Missing URL"}
	}
	return CheckFrigate(context.Background(), cfg.Frigate.URL)
}

// RecorderProbe reports the current recorder runtime snapshot.
type RecorderProbe struct {
	Reachable bool
	Version   string
	Uptime    time.Duration
}

// ProbeRecorder fetches runtime statistics from the recorder for status UIs.
func ProbeRecorder(ctx context.Context, baseURL string) RecorderProbe {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return RecorderProbe{}
	}

	probeCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	client, err := frigate.New(base, frigate.WithTimeout(checkTimeout))
	if err != nil {
		return RecorderProbe{}
	}
	stats, err := client.GetStats(probeCtx)
	if err != nil {
		return RecorderProbe{}
	}
	return RecorderProbe{
		Reachable: true,
		Version:   stats.Service.Version,
		Uptime:    time.Duration(stats.Service.Uptime) * time.Second,
	}
}

// RecorderDetail renders a display-friendly summary for status UIs.
func (p RecorderProbe) RecorderDetail() string {
	if !p.Reachable {
		return "Recorder unreachable"
	}
	if p.Version == "" {
		return fmt.Sprintf("Recorder up %s", formatUptime(p.Uptime))
	}
	return fmt.Sprintf("Frigate %s up %s", p.Version, formatUptime(p.Uptime))
}

func formatUptime(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return d.String()
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd%dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh%dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
