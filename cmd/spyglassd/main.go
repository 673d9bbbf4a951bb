package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"spyglass/internal/bookmarks"
	"spyglass/internal/config"
	"spyglass/internal/daemon"
	"spyglass/internal/frigate"
	"spyglass/internal/ipc"
	"spyglass/internal/logging"
	"spyglass/internal/media"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A .env file is optional; absence is not an error.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "configuration file path")
	socketPath := flag.String("socket", "", "IPC socket path override")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	if err := run(*configPath, *socketPath, *logLevel); err != nil {
		log.Fatalf("spyglassd: %v", err)
	}
}

func run(configPath, socketOverride, levelOverride string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if level := strings.TrimSpace(levelOverride); level != "" {
		cfg.Logging.Level = level
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	store, err := bookmarks.Open(cfg)
	if err != nil {
		return fmt.Errorf("open bookmark store: %w", err)
	}
	defer store.Close()

	client, err := frigate.New(cfg.Frigate.URL, frigate.WithTimeout(cfg.Timeout()))
	if err != nil {
		return fmt.Errorf("create frigate client: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("resolve timezone: %w", err)
	}

	source, err := media.NewSource(client,
		media.WithLogger(logger),
		media.WithLocation(loc),
		media.WithLimits(media.Limits{
			ItemLimit:          cfg.Browse.ItemLimit,
			AllLimit:           cfg.Browse.AllLimit,
			VisibilityFloor:    cfg.Browse.VisibilityFloor,
			DrilldownThreshold: cfg.Browse.DrilldownMinEvents,
		}),
	)
	if err != nil {
		return fmt.Errorf("create media source: %w", err)
	}

	d, err := daemon.New(cfg, store, client, source, logger, version)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	socket := strings.TrimSpace(socketOverride)
	if socket == "" {
		socket = cfg.SocketPath()
	}
	ipcServer, err := ipc.NewServer(ctx, socket, d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(ctx); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	select {
	case <-ctx.Done():
		logger.Info("spyglassd shutting down")
	case <-d.Done():
		logger.Info("spyglassd stopped via IPC")
	}
	return nil
}
