package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"

	fuseadapter "github.com/ginot/kriptofs/internal/adapter/fuse"
	"github.com/ginot/kriptofs/internal/logger"
	"github.com/ginot/kriptofs/internal/telemetry"
	"github.com/ginot/kriptofs/pkg/api"
	"github.com/ginot/kriptofs/pkg/config"
	"github.com/ginot/kriptofs/pkg/passthrough"
)

var (
	mountAllowOther bool
	mountDebug      bool
	mountFSName     string
)

var mountCmd = &cobra.Command{
	Use:   "mount [source] [mountpoint]",
	Short: "Mount a source directory through FUSE",
	Long: `Mount a real directory as a read-only FUSE filesystem.

The source directory and mountpoint can be given as positional
arguments or configured in the config file; positional arguments take
precedence. Both must exist and be directories.

The process stays in the foreground while mounted. Send SIGINT or
SIGTERM (Ctrl+C) to unmount and exit.

Examples:
  # Mount /srv/data at /mnt/kripto
  kriptofs mount /srv/data /mnt/kripto

  # Use source and mountpoint from the config file
  kriptofs mount --config /etc/kriptofs/config.yaml

  # Allow other users to access the mount
  kriptofs mount /srv/data /mnt/kripto --allow-other

  # Use environment variables to override config
  KRIPTOFS_LOGGING_LEVEL=DEBUG kriptofs mount /srv/data /mnt/kripto`,
	Args: cobra.MaximumNArgs(2),
	RunE: runMount,
}

func init() {
	mountCmd.Flags().BoolVar(&mountAllowOther, "allow-other", false, "Allow other users to access the mount (requires user_allow_other in /etc/fuse.conf)")
	mountCmd.Flags().BoolVar(&mountDebug, "debug", false, "Enable FUSE request tracing")
	mountCmd.Flags().StringVar(&mountFSName, "fsname", "", "Filesystem name reported in /proc/mounts")
}

func runMount(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	// Positional arguments override the config file
	if len(args) >= 1 {
		cfg.Mount.Source = args[0]
	}
	if len(args) >= 2 {
		cfg.Mount.Mountpoint = args[1]
	}
	if mountAllowOther {
		cfg.Mount.AllowOther = true
	}
	if mountDebug {
		cfg.Mount.Debug = true
	}
	if mountFSName != "" {
		cfg.Mount.FSName = mountFSName
	}

	if cfg.Mount.Source == "" || cfg.Mount.Mountpoint == "" {
		_ = cmd.Usage()
		return fmt.Errorf("source and mountpoint are required (as arguments or in the config file)")
	}

	// Initialize the structured logger
	if err := InitLogger(cfg); err != nil {
		return err
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry (if enabled)
	telemetryCfg := telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "kriptofs",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	}
	telemetryShutdown, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	// Initialize Pyroscope profiling (if enabled)
	profilingCfg := telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "kriptofs",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	}
	profilingShutdown, err := telemetry.InitProfiling(profilingCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", "error", err)
		}
	}()

	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))
	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	} else {
		logger.Info("Telemetry disabled")
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("Profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint, "profile_types", cfg.Telemetry.Profiling.ProfileTypes)
	} else {
		logger.Info("Profiling disabled")
	}

	// Initialize metrics FIRST (before creating the adapter that uses them)
	metricsResult := config.InitializeMetrics(cfg)

	// Create the passthrough service over the source directory
	svc, err := passthrough.NewService(cfg.Mount.Source)
	if err != nil {
		return err
	}
	logger.Info("Passthrough service initialized", "source", svc.Source())

	// Create the FUSE adapter
	adapter, err := fuseadapter.New(fuseadapter.Config{
		Mountpoint: cfg.Mount.Mountpoint,
		FSName:     cfg.Mount.FSName,
		AllowOther: cfg.Mount.AllowOther,
		Debug:      cfg.Mount.Debug,
	}, svc, metricsResult.FUSE)
	if err != nil {
		return err
	}

	// Start metrics scrape server (if enabled)
	if metricsResult.Server != nil {
		logger.Info("Metrics enabled", "port", cfg.Metrics.Port)
		go func() {
			if err := metricsResult.Server.Start(); err != nil {
				logger.Error("Metrics server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer shutdownCancel()
			if err := metricsResult.Server.Shutdown(shutdownCtx); err != nil {
				logger.Error("Metrics server shutdown error", "error", err)
			}
		}()
	} else {
		logger.Info("Metrics collection disabled")
	}

	// mounted tracks whether the FUSE mount is up, for the readiness probe
	var mounted atomic.Bool

	// Start management API server (if enabled - defaults to true)
	if cfg.API.IsEnabled() {
		apiServer := api.NewServer(cfg.API, svc, mounted.Load)
		logger.Info("API server enabled", "port", apiServer.Port())
		go func() {
			if err := apiServer.Start(ctx); err != nil {
				logger.Error("API server error", "error", err)
			}
		}()
	} else {
		logger.Info("API server disabled")
	}

	// Mount and serve in background
	serverDone := make(chan error, 1)
	go func() {
		mounted.Store(true)
		err := adapter.Serve(ctx)
		mounted.Store(false)
		serverDone <- err
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Filesystem is serving. Press Ctrl+C to unmount.")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("Shutdown signal received, unmounting")
		cancel()

		if err := <-serverDone; err != nil {
			logger.Error("Unmount error", "error", err)
			return err
		}
		logger.Info("Filesystem unmounted gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("Filesystem error", "error", err)
			return err
		}
		logger.Info("Filesystem stopped")
	}

	return nil
}
