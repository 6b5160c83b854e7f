// Package metrics defines the observability interfaces for kriptofs.
//
// Interfaces in this package are optional: every consumer accepts nil to
// disable metrics collection with zero overhead. The Prometheus-backed
// implementations live in the prometheus subpackage and return nil when
// the registry has not been initialized.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	registry *prometheus.Registry
	mu       sync.RWMutex
)

// InitRegistry creates the global Prometheus registry and registers the
// standard Go runtime and process collectors. Must be called before any
// New*Metrics constructor for metrics to be collected; calling it twice
// is a no-op.
func InitRegistry() {
	mu.Lock()
	defer mu.Unlock()

	if registry != nil {
		return
	}

	registry = prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// IsEnabled reports whether the global registry has been initialized.
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return registry != nil
}

// GetRegistry returns the global registry, or nil if InitRegistry was
// never called.
func GetRegistry() *prometheus.Registry {
	mu.RLock()
	defer mu.RUnlock()
	return registry
}
