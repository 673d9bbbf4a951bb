package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"spyglass/internal/config"
	"spyglass/internal/frigate"
)

const checkTimeout = 5 * time.Second

// CheckConfiguration validates the loaded configuration values.
func CheckConfiguration(cfg *config.Config) Result {
	const name = "Configuration"

	if cfg == nil {
		return Result{Name: name, Detail: "no configuration loaded"}
	}
	if err := cfg.Validate(); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: "valid"}
}

// CheckFrigate verifies that the Frigate API answers its version endpoint.
// It uses a 5-second timeout and a single attempt (no retries).
func CheckFrigate(ctx context.Context, baseURL string) Result {
	const name = "Frigate API"

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing url"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	client, err := frigate.New(base, frigate.WithTimeout(checkTimeout))
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	version, err := client.GetVersion(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeNetworkError(err)}
	}
	if version == "" {
		return Result{Name: name, Passed: true, Detail: "reachable"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("version %s", version)}
}

// CheckCameras verifies that the recorder reports at least one camera.
func CheckCameras(ctx context.Context, baseURL string) Result {
	const name = "Cameras"

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing url"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	client, err := frigate.New(base, frigate.WithTimeout(checkTimeout))
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	remote, err := client.GetConfig(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeNetworkError(err)}
	}
	if len(remote.Cameras) == 0 {
		return Result{Name: name, Detail: "no cameras configured"}
	}

	names := make([]string, 0, len(remote.Cameras))
	for camera := range remote.Cameras {
		names = append(names, camera)
	}
	sort.Strings(names)
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d configured (%s)", len(names), strings.Join(names, ", "))}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// minFreeBytes is the floor below which the filesystem holding the state
// directory is considered too full for the bookmark database and logs.
const minFreeBytes = 64 * 1024 * 1024

// CheckDiskSpace verifies that the filesystem holding path has free space
// above the floor.
func CheckDiskSpace(name, path string) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minFreeBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s free (need at least %s)", formatBytes(int64(free)), formatBytes(minFreeBytes))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s free", formatBytes(int64(free)))}
}

func formatBytes(value int64) string {
	const (
		kiB = 1024
		miB = kiB * 1024
		giB = miB * 1024
	)
	switch {
	case value >= giB:
		return fmt.Sprintf("%.2f GiB", float64(value)/float64(giB))
	case value >= miB:
		return fmt.Sprintf("%.2f MiB", float64(value)/float64(miB))
	case value >= kiB:
		return fmt.Sprintf("%.2f KiB", float64(value)/float64(kiB))
	default:
		return fmt.Sprintf("%d B", value)
	}
}

// summarizeNetworkError produces a human-readable summary for recorder
// connectivity failures.
func summarizeNetworkError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (Frigate API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (Frigate API unreachable)"
	}
	var statusErr *frigate.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("request failed (%d)", statusErr.StatusCode)
	}
	return err.Error()
}
