// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import "time"

const (
	// DefaultBucket is the GCS bucket holding the aggregated tables.
	DefaultBucket = "country-innovation"

	// DefaultDataTTL matches the refresh cadence of the upstream aggregation.
	DefaultDataTTL = 600 * time.Second

	defaultListenAddr      = ":8088"
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 60 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultMaxHeaderBytes  = 1 << 20 // 1 MB
	defaultShutdownTimeout = 15 * time.Second
	defaultLoadTimeout     = 2 * time.Minute
	defaultCacheTTL        = 10 * time.Minute
	defaultCleanupInterval = time.Minute
	defaultRateLimitRPM    = 600
	defaultReloadRPM       = 10
)

// Defaults returns the configuration used when neither file nor ENV set a value.
func Defaults() AppConfig {
	return AppConfig{
		LogLevel:   "info",
		LogService: "innoviz",
		Server: ServerConfig{
			ListenAddr:      defaultListenAddr,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			MaxHeaderBytes:  defaultMaxHeaderBytes,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Data: DataConfig{
			Source:      SourceGCS,
			Format:      FormatParquet,
			Bucket:      DefaultBucket,
			TTL:         DefaultDataTTL,
			LoadTimeout: defaultLoadTimeout,
		},
		Cache: CacheConfig{
			Backend:         CacheMemory,
			TTL:             defaultCacheTTL,
			CleanupInterval: defaultCleanupInterval,
		},
		API: APIConfig{
			RateLimitRPM:       defaultRateLimitRPM,
			ReloadRateLimitRPM: defaultReloadRPM,
		},
		Telemetry: TelemetryConfig{
			Exporter:     ExporterGRPC,
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
			Environment:  "production",
		},
	}
}
