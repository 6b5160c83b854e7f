package config

import (
	"github.com/ginot/kriptofs/internal/logger"
	"github.com/ginot/kriptofs/pkg/metrics"
	"github.com/ginot/kriptofs/pkg/metrics/prometheus"
)

// MetricsResult holds the components produced by InitializeMetrics.
//
// When metrics are disabled both fields are nil: the scrape server is
// not started and the adapter receives a nil FUSEMetrics, which
// disables collection with zero overhead.
type MetricsResult struct {
	// Server is the Prometheus scrape server, or nil when metrics are
	// disabled.
	Server *metrics.Server

	// FUSE is the adapter metrics sink, or nil when metrics are
	// disabled.
	FUSE metrics.FUSEMetrics
}

// InitializeMetrics sets up the metrics registry, scrape server and
// collectors according to the configuration.
//
// A failure to build the scrape server is logged and degrades to
// metrics-disabled rather than failing startup; serving files takes
// priority over observability.
func InitializeMetrics(cfg *Config) MetricsResult {
	if !cfg.Metrics.Enabled {
		return MetricsResult{}
	}

	metrics.InitRegistry()

	server, err := metrics.NewServer(cfg.Metrics.Port)
	if err != nil {
		logger.Warn("Failed to create metrics server, metrics disabled", "error", err)
		return MetricsResult{}
	}

	return MetricsResult{
		Server: server,
		FUSE:   prometheus.NewFUSEMetrics(),
	}
}
