package daemonctl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"spyglass/internal/bookmarks"
	"spyglass/internal/config"
	"spyglass/internal/ipc"
	"spyglass/internal/preflight"
)

// LaunchOptions controls daemon process launch behavior.
type LaunchOptions struct {
	SocketPath string
	ConfigPath string
}

type StartState string

const (
	StartStateStarted        StartState = "started"
	StartStateAlreadyRunning StartState = "already_running"
)

// StartResult captures daemon start orchestration state.
type StartResult struct {
	State    StartState
	Launched bool
	PID      int
}

// Launch starts a detached spyglassd process.
func Launch(executablePath string, opts LaunchOptions) error {
	if strings.TrimSpace(executablePath) == "" {
		return fmt.Errorf("resolve executable: executable path is empty")
	}

	var args []string
	if socket := strings.TrimSpace(opts.SocketPath); socket != "" {
		args = append(args, "--socket", socket)
	}
	if cfg := strings.TrimSpace(opts.ConfigPath); cfg != "" {
		args = append(args, "--config", cfg)
	}

	proc := exec.Command(executablePath, args...)
	if err := proc.Start(); err != nil {
		return fmt.Errorf("launch daemon: %w", err)
	}
	return proc.Process.Release()
}

// WaitForClient waits for IPC socket availability and returns a connected client.
func WaitForClient(socketPath string, timeout time.Duration) (*ipc.Client, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		client, err := ipc.Dial(socketPath)
		if err == nil {
			return client, nil
		}
		lastErr = err
		time.Sleep(200 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("timeout waiting for daemon")
	}
	return nil, fmt.Errorf("daemon failed to start: %w", lastErr)
}

// EnsureStarted launches the daemon when its socket is unreachable and
// confirms the new process reports running.
func EnsureStarted(socketPath, executablePath string, opts LaunchOptions, waitTimeout time.Duration) (StartResult, error) {
	client, err := ipc.Dial(socketPath)
	if err == nil {
		statusResp, statusErr := client.Status()
		_ = client.Close()
		if statusErr == nil && statusResp != nil && statusResp.Running {
			return StartResult{State: StartStateAlreadyRunning, PID: statusResp.PID}, nil
		}
		// The socket answered but the daemon reports stopped: a previous
		// instance is tearing down. Wait it out before launching fresh.
		if waitErr := WaitForShutdown(socketPath, waitTimeout); waitErr != nil {
			return StartResult{}, waitErr
		}
	}

	if launchErr := Launch(executablePath, opts); launchErr != nil {
		return StartResult{}, launchErr
	}
	client, err = WaitForClient(socketPath, waitTimeout)
	if err != nil {
		return StartResult{}, err
	}
	defer client.Close()

	result := StartResult{State: StartStateStarted, Launched: true}
	statusResp, statusErr := client.Status()
	if statusErr != nil {
		return StartResult{}, statusErr
	}
	if statusResp != nil {
		result.PID = statusResp.PID
	}
	return result, nil
}

// WaitForShutdown waits for daemon IPC to disappear or report not-running.
func WaitForShutdown(socketPath string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		client, err := ipc.Dial(socketPath)
		if err != nil {
			if isDaemonUnavailable(err) {
				return nil
			}
			lastErr = err
			time.Sleep(200 * time.Millisecond)
			continue
		}
		status, statusErr := client.Status()
		_ = client.Close()
		if statusErr == nil && !status.Running {
			return nil
		}
		if statusErr != nil {
			lastErr = statusErr
		} else {
			lastErr = fmt.Errorf("daemon still running")
		}
		time.Sleep(200 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("timeout waiting for shutdown")
	}
	return fmt.Errorf("daemon did not stop: %w", lastErr)
}

// ProcessInfo returns whether daemon IPC is reachable and the daemon PID when available.
func ProcessInfo(socketPath string) (bool, int, error) {
	client, err := ipc.Dial(socketPath)
	if err != nil {
		if isDaemonUnavailable(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	defer client.Close()
	status, statusErr := client.Status()
	if statusErr != nil {
		return true, 0, statusErr
	}
	pid := 0
	if status != nil {
		pid = status.PID
	}
	return true, pid, nil
}

// ErrDaemonNotRunning indicates daemon IPC is unavailable.
var ErrDaemonNotRunning = errors.New("daemon not running")

// StopResult captures daemon stop/termination outcome.
type StopResult struct {
	StopAcknowledged bool
	ForcedKill       bool
	PID              int
}

// RestartResult captures stop/start outcomes for daemon restart.
type RestartResult struct {
	WasRunning bool
	Stop       StopResult
	Start      StartResult
}

// StopDaemon requests daemon stop over IPC and force-kills the process if
// it is still alive after gracePeriod. The daemon process exits on its own
// once it acknowledges the stop, so the kill path is rarely taken.
func StopDaemon(socketPath string, gracePeriod time.Duration) (StopResult, error) {
	client, err := ipc.Dial(socketPath)
	if err != nil {
		if isDaemonUnavailable(err) {
			return StopResult{}, ErrDaemonNotRunning
		}
		return StopResult{}, err
	}
	statusResp, statusErr := client.Status()
	pid := 0
	if statusErr == nil && statusResp != nil {
		pid = statusResp.PID
	}
	resp, err := client.Stop()
	_ = client.Close()
	if err != nil {
		return StopResult{}, err
	}
	result := StopResult{PID: pid}
	if resp != nil {
		result.StopAcknowledged = resp.Stopped
	}

	waitErr := WaitForShutdown(socketPath, gracePeriod)
	if waitErr == nil {
		return result, nil
	}
	if pid <= 0 || pid == os.Getpid() {
		return result, waitErr
	}
	proc, findErr := os.FindProcess(pid)
	if findErr != nil {
		return result, waitErr
	}
	if killErr := proc.Kill(); killErr != nil {
		return result, fmt.Errorf("failed to stop daemon process: %w", killErr)
	}
	_ = os.Remove(socketPath)
	result.ForcedKill = true
	return result, nil
}

// Restart stops the daemon if running, then ensures it is started.
func Restart(socketPath, executablePath string, opts LaunchOptions, stopGracePeriod, startWaitTimeout time.Duration) (RestartResult, error) {
	stopResult, stopErr := StopDaemon(socketPath, stopGracePeriod)
	if stopErr != nil && !errors.Is(stopErr, ErrDaemonNotRunning) {
		return RestartResult{}, stopErr
	}

	startResult, err := EnsureStarted(socketPath, executablePath, opts, startWaitTimeout)
	if err != nil {
		return RestartResult{}, err
	}

	return RestartResult{
		WasRunning: stopErr == nil,
		Stop:       stopResult,
		Start:      startResult,
	}, nil
}

// StatusLine is a labeled severity/detail pair for status rendering.
type StatusLine struct {
	Label    string `json:"label"`
	Severity string `json:"severity"`
	Detail   string `json:"detail"`
}

// StatusSnapshot combines daemon-reported status with checks resolved locally.
type StatusSnapshot struct {
	Daemon   ipc.StatusResponse `json:"daemon"`
	System   []StatusLine       `json:"system"`
	Recorder []StatusLine       `json:"recorder"`
}

// BuildStatusSnapshot collects daemon status and applies offline fallbacks
// for the bookmark count and recorder checks.
func BuildStatusSnapshot(ctx context.Context, socketPath string, cfg *config.Config) (*StatusSnapshot, error) {
	if cfg == nil {
		return nil, errors.New("configuration not available")
	}
	snapshot := &StatusSnapshot{}

	client, err := ipc.Dial(socketPath)
	if err == nil {
		defer client.Close()
		if resp, statusErr := client.Status(); statusErr == nil && resp != nil {
			snapshot.Daemon = *resp
		}
	}

	if !snapshot.Daemon.Running {
		queryCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		store, openErr := bookmarks.Open(cfg)
		if openErr == nil {
			count, countErr := store.Count(queryCtx)
			if countErr == nil {
				snapshot.Daemon.BookmarkCount = count
			}
			snapshot.Daemon.BookmarkDBPath = store.Path()
			_ = store.Close()
		}
		if strings.TrimSpace(snapshot.Daemon.FrigateURL) == "" {
			snapshot.Daemon.FrigateURL = cfg.Frigate.URL
		}
	}

	snapshot.System = BuildSystemChecks(cfg, &snapshot.Daemon)
	snapshot.Recorder = BuildRecorderChecks(ctx, cfg)
	return snapshot, nil
}

// BuildSystemChecks resolves status lines that combine runtime state and
// local directory checks.
func BuildSystemChecks(cfg *config.Config, status *ipc.StatusResponse) []StatusLine {
	lines := make([]StatusLine, 0, 4)
	if status != nil && status.Running {
		lines = append(lines, StatusLine{Label: "Spyglass", Severity: "ok", Detail: fmt.Sprintf("Running (pid %d)", status.PID)})
		bind := strings.TrimSpace(status.Bind)
		if bind == "" {
			bind = cfg.Server.Bind
		}
		lines = append(lines, StatusLine{Label: "HTTP API", Severity: "ok", Detail: fmt.Sprintf("Listening on %s", bind)})
	} else {
		lines = append(lines, StatusLine{Label: "Spyglass", Severity: "warn", Detail: "Not running (run `spyglass start`)"})
		lines = append(lines, StatusLine{Label: "HTTP API", Severity: "info", Detail: "Offline"})
	}

	state := preflight.CheckDirectoryAccess("State directory", cfg.Paths.StateDir)
	severity := "error"
	if state.Passed {
		severity = "ok"
	}
	lines = append(lines, StatusLine{Label: "State directory", Severity: severity, Detail: state.Detail})

	if status != nil {
		detail := fmt.Sprintf("%d saved", status.BookmarkCount)
		if path := strings.TrimSpace(status.BookmarkDBPath); path != "" {
			detail = fmt.Sprintf("%d saved (%s)", status.BookmarkCount, path)
		}
		lines = append(lines, StatusLine{Label: "Bookmarks", Severity: "ok", Detail: detail})
	}
	return lines
}

// BuildRecorderChecks resolves recorder connectivity lines for status output.
func BuildRecorderChecks(ctx context.Context, cfg *config.Config) []StatusLine {
	lines := make([]StatusLine, 0, 2)

	check := preflight.CheckFrigateFromConfig(cfg)
	if !check.Passed {
		severity := "warn"
		if strings.EqualFold(strings.TrimSpace(check.Detail), "Unknown") {
			severity = "info"
		}
		lines = append(lines, StatusLine{Label: "Frigate", Severity: severity, Detail: check.Detail})
		return lines
	}

	probe := preflight.ProbeRecorder(ctx, cfg.Frigate.URL)
	severity := "ok"
	if !probe.Reachable {
		severity = "warn"
	}
	lines = append(lines, StatusLine{Label: "Frigate", Severity: severity, Detail: probe.RecorderDetail()})

	cameras := preflight.CheckCameras(ctx, cfg.Frigate.URL)
	severity = "warn"
	if cameras.Passed {
		severity = "ok"
	}
	lines = append(lines, StatusLine{Label: "Cameras", Severity: severity, Detail: cameras.Detail})

	return lines
}

func isDaemonUnavailable(err error) bool {
	return os.IsNotExist(err) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, syscall.ENOENT) ||
		errors.Is(err, syscall.ECONNREFUSED)
}
