// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"strings"
	"time"

	"github.com/ManuGH/innoviz/internal/validate"
)

// Validate checks cross-field consistency and reports every problem found.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.OneOf("logLevel", strings.ToLower(cfg.LogLevel), []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"})

	v.ListenAddr("server.listenAddr", cfg.Server.ListenAddr)
	v.MinDuration("server.shutdownTimeout", cfg.Server.ShutdownTimeout, 3*time.Second)
	if cfg.Server.MaxHeaderBytes <= 0 {
		v.AddError("server.maxHeaderBytes", "value must be positive", cfg.Server.MaxHeaderBytes)
	}

	v.OneOf("data.source", cfg.Data.Source, []string{SourceGCS, SourceLocal, SourceSQLite})
	v.OneOf("data.format", cfg.Data.Format, []string{FormatParquet, FormatCSV})
	v.MinDuration("data.ttl", cfg.Data.TTL, time.Second)
	v.MinDuration("data.loadTimeout", cfg.Data.LoadTimeout, time.Second)
	switch cfg.Data.Source {
	case SourceGCS:
		v.NotEmpty("data.bucket", cfg.Data.Bucket)
		if cfg.Data.CredentialsFile != "" && cfg.Data.CredentialsJSON != "" {
			v.AddError("data.credentialsFile", "set either credentialsFile or credentialsJSON, not both", cfg.Data.CredentialsFile)
		}
		if cfg.Data.Endpoint != "" {
			v.URL("data.endpoint", cfg.Data.Endpoint, []string{"http", "https"})
		}
	case SourceLocal:
		v.NotEmpty("data.dir", cfg.Data.Dir)
	case SourceSQLite:
		v.NotEmpty("data.sqlitePath", cfg.Data.SQLitePath)
	}
	if cfg.Data.Watch && cfg.Data.Source != SourceLocal {
		v.AddError("data.watch", "watching is only supported for the local source", cfg.Data.Watch)
	}

	v.OneOf("cache.backend", cfg.Cache.Backend, []string{CacheMemory, CacheRedis, CacheBadger, CacheNone})
	if cfg.Cache.Backend != CacheNone {
		v.MinDuration("cache.ttl", cfg.Cache.TTL, time.Second)
	}
	switch cfg.Cache.Backend {
	case CacheRedis:
		v.HostPort("cache.redisAddr", cfg.Cache.RedisAddr)
		v.Range("cache.redisDB", cfg.Cache.RedisDB, 0, 15)
	case CacheBadger:
		v.NotEmpty("cache.badgerPath", cfg.Cache.BadgerPath)
	}

	v.Range("api.rateLimitRPM", cfg.API.RateLimitRPM, 1, 1_000_000)
	v.Range("api.reloadRateLimitRPM", cfg.API.ReloadRateLimitRPM, 1, 10_000)
	for _, origin := range cfg.API.AllowedOrigins {
		if origin != "*" {
			v.URL("api.allowedOrigins", origin, []string{"http", "https"})
		}
	}

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, []string{ExporterGRPC, ExporterHTTP})
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.FloatRange("telemetry.samplingRate", cfg.Telemetry.SamplingRate, 0, 1)
	}

	return v.Err()
}
