package fuse

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/ginot/kriptofs/internal/logger"
	"github.com/ginot/kriptofs/pkg/metrics"
	"github.com/ginot/kriptofs/pkg/passthrough"
)

// Config holds the mount-level settings of the FUSE adapter.
type Config struct {
	// Mountpoint is the directory where the filesystem is exposed.
	// Must exist and be a directory.
	Mountpoint string

	// FSName is the source reported in /proc/mounts. Defaults to
	// "kriptofs".
	FSName string

	// AllowOther permits other users to access the mount. Requires
	// user_allow_other in /etc/fuse.conf.
	AllowOther bool

	// Debug enables go-fuse request tracing to stderr.
	Debug bool
}

// Adapter exposes a passthrough service as a mounted FUSE filesystem.
//
// Lifecycle:
//  1. Creation: New() with configuration, service and optional metrics
//  2. Startup: Serve() mounts and blocks until the context is cancelled
//     or the kernel connection is severed
//  3. Shutdown: context cancellation (or Stop()) unmounts and drains
//
// Stop() may be called concurrently with Serve() and is idempotent.
type Adapter struct {
	cfg     Config
	svc     *passthrough.Service
	metrics metrics.FUSEMetrics

	mu       sync.Mutex
	server   *fuse.Server
	stopOnce sync.Once
}

// New creates a FUSE adapter over the given passthrough service.
// metrics may be nil to disable collection.
func New(cfg Config, svc *passthrough.Service, m metrics.FUSEMetrics) (*Adapter, error) {
	if cfg.Mountpoint == "" {
		return nil, fmt.Errorf("mountpoint is required")
	}
	info, err := os.Stat(cfg.Mountpoint)
	if err != nil {
		return nil, fmt.Errorf("mountpoint %s: %w", cfg.Mountpoint, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("mountpoint %s is not a directory", cfg.Mountpoint)
	}
	if cfg.FSName == "" {
		cfg.FSName = "kriptofs"
	}

	return &Adapter{
		cfg:     cfg,
		svc:     svc,
		metrics: m,
	}, nil
}

// Serve mounts the filesystem and blocks until the context is cancelled
// or the kernel connection is lost. On cancellation it unmounts and
// waits for in-flight requests to drain, then returns nil.
func (a *Adapter) Serve(ctx context.Context) error {
	rfs := newRawFileSystem(a.svc, a.metrics)

	server, err := fuse.NewServer(rfs, a.cfg.Mountpoint, &fuse.MountOptions{
		FsName:     a.cfg.FSName,
		Name:       "kriptofs",
		AllowOther: a.cfg.AllowOther,
		Debug:      a.cfg.Debug,
	})
	if err != nil {
		return fmt.Errorf("mounting at %s: %w", a.cfg.Mountpoint, err)
	}

	a.mu.Lock()
	a.server = server
	a.mu.Unlock()

	logger.Info("Filesystem mounted",
		logger.KeySource, a.svc.Source(),
		logger.KeyTarget, a.cfg.Mountpoint)

	// Serve exits when the kernel connection closes, either through
	// Unmount below or an external umount.
	done := make(chan struct{})
	go func() {
		server.Serve()
		close(done)
	}()

	if err := server.WaitMount(); err != nil {
		return fmt.Errorf("mount handshake failed: %w", err)
	}

	select {
	case <-ctx.Done():
		logger.Info("Unmounting filesystem", logger.KeyTarget, a.cfg.Mountpoint)
		if err := server.Unmount(); err != nil {
			logger.Warn("Unmount failed, filesystem may still be mounted",
				logger.KeyTarget, a.cfg.Mountpoint,
				logger.KeyError, err)
			return fmt.Errorf("unmounting %s: %w", a.cfg.Mountpoint, err)
		}
		<-done
		return nil
	case <-done:
		// External unmount, or the connection was severed.
		logger.Info("Filesystem unmounted externally", logger.KeyTarget, a.cfg.Mountpoint)
		return nil
	}
}

// Stop unmounts the filesystem. Safe to call multiple times and
// concurrently with Serve.
func (a *Adapter) Stop(ctx context.Context) error {
	var err error
	a.stopOnce.Do(func() {
		a.mu.Lock()
		server := a.server
		a.mu.Unlock()
		if server != nil {
			err = server.Unmount()
		}
	})
	return err
}

// Protocol returns the protocol name for logging.
func (a *Adapter) Protocol() string {
	return "FUSE"
}

// Mountpoint returns the configured mountpoint.
func (a *Adapter) Mountpoint() string {
	return a.cfg.Mountpoint
}
