package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks the configuration for invalid or inconsistent values.
//
// Struct-level rules (log levels, formats, port ranges, sample rates)
// are expressed as `validate` tags and enforced with go-playground
// validator. Cross-field rules that tags cannot express are checked
// explicitly afterwards:
//   - Telemetry enabled requires a collector endpoint
//   - Profiling enabled requires a Pyroscope endpoint
//   - Metrics enabled requires a port
//
// Validation does not normalize values; normalization (e.g. uppercasing
// the log level) happens in ApplyDefaults.
func Validate(cfg *Config) error {
	validate := validator.New()

	if err := validate.Struct(cfg); err != nil {
		return err
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		return fmt.Errorf("telemetry is enabled but no endpoint is configured")
	}

	if cfg.Telemetry.Profiling.Enabled && cfg.Telemetry.Profiling.Endpoint == "" {
		return fmt.Errorf("profiling is enabled but no endpoint is configured")
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Port == 0 {
		return fmt.Errorf("metrics are enabled but no port is configured")
	}

	return nil
}
