// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer
//   file and environment overrides on top.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// Weights maps score sources to their blend weights. Must cover every
	// source and sum to 1.0.
	Weights map[string]float64 `koanf:"weights"`

	// EstimateCoefficients maps cheap sources to the correlation weights
	// used when the AI component is synthesized. Must sum to 1.0.
	EstimateCoefficients map[string]float64 `koanf:"estimate_coefficients"`

	// BudgetCeiling caps AI-mention invocations per UTC day.
	BudgetCeiling int `koanf:"budget_ceiling"`

	// ResultTTLHours and PoolTTLHours bound the two cache stores.
	ResultTTLHours int `koanf:"result_ttl_hours"`
	PoolTTLHours   int `koanf:"pool_ttl_hours"`

	// CacheCapacity bounds entries per cache store.
	CacheCapacity int `koanf:"cache_capacity"`

	// ScheduleIntervalSeconds and MonitorIntervalSeconds drive the
	// orchestrator's periodic passes.
	ScheduleIntervalSeconds int `koanf:"schedule_interval_seconds"`
	MonitorIntervalSeconds  int `koanf:"monitor_interval_seconds"`

	// HeartbeatTimeoutSeconds is how long a worker may stay silent
	// before it is taken offline.
	HeartbeatTimeoutSeconds int `koanf:"heartbeat_timeout_seconds"`

	// MaxRetries is the default retry ceiling for submitted jobs.
	MaxRetries int `koanf:"max_retries"`

	// WorkerCount sets how many in-process workers register at startup.
	WorkerCount int `koanf:"worker_count"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel: "info",
		Addr:     ":9090",
		Weights: map[string]float64{
			"structured_data": 0.10,
			"zero_click":      0.20,
			"ugc":             0.20,
			"geo_trust":       0.15,
			"ai_mention":      0.35,
		},
		EstimateCoefficients: map[string]float64{
			"zero_click": 0.35,
			"ugc":        0.40,
			"geo_trust":  0.25,
		},
		BudgetCeiling:           50,
		ResultTTLHours:          24,
		PoolTTLHours:            168,
		CacheCapacity:           10_000,
		ScheduleIntervalSeconds: 10,
		MonitorIntervalSeconds:  30,
		HeartbeatTimeoutSeconds: 300,
		MaxRetries:              3,
		WorkerCount:             runtime.NumCPU(),
	}
}
