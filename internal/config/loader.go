// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{} // keys read during the last Load
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Path returns the config file path, empty when running from ENV only.
func (l *Loader) Path() string {
	return l.configPath
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, defaultVal)
}

// Load loads configuration with precedence: ENV > File > Defaults
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	l.mergeEnvConfig(&cfg)
	cfg.Version = l.version

	for _, p := range []*string{&cfg.Data.Dir, &cfg.Data.MirrorDir, &cfg.Data.SQLitePath, &cfg.Cache.BadgerPath} {
		if *p == "" {
			continue
		}
		if abs, err := filepath.Abs(*p); err == nil {
			*p = abs
		}
	}

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile decodes a YAML file onto cfg with STRICT parsing.
// Unknown fields cause an error to prevent misconfiguration.
func (l *Loader) loadFile(path string, cfg *AppConfig) error {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("%w: %s (only YAML supported)", ErrUnsupportedConfigFormat, ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("%w: %v", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return nil
}

// mergeEnvConfig applies INNOVIZ_* overrides on top of file and defaults.
func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.LogLevel = l.envString("INNOVIZ_LOG_LEVEL", cfg.LogLevel)
	cfg.LogService = l.envString("INNOVIZ_LOG_SERVICE", cfg.LogService)

	cfg.Server.ListenAddr = l.envString("INNOVIZ_LISTEN", cfg.Server.ListenAddr)
	cfg.Server.ReadTimeout = l.envDuration("INNOVIZ_SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = l.envDuration("INNOVIZ_SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = l.envDuration("INNOVIZ_SERVER_IDLE_TIMEOUT", cfg.Server.IdleTimeout)
	cfg.Server.MaxHeaderBytes = l.envInt("INNOVIZ_SERVER_MAX_HEADER_BYTES", cfg.Server.MaxHeaderBytes)
	cfg.Server.ShutdownTimeout = l.envDuration("INNOVIZ_SERVER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)

	cfg.Data.Source = strings.ToLower(l.envString("INNOVIZ_DATA_SOURCE", cfg.Data.Source))
	cfg.Data.Format = strings.ToLower(l.envString("INNOVIZ_DATA_FORMAT", cfg.Data.Format))
	cfg.Data.Bucket = l.envString("INNOVIZ_GCS_BUCKET", cfg.Data.Bucket)
	cfg.Data.QuotaProject = l.envString("INNOVIZ_GCS_QUOTA_PROJECT", cfg.Data.QuotaProject)
	cfg.Data.CredentialsFile = l.envString("INNOVIZ_GCS_CREDENTIALS_FILE", cfg.Data.CredentialsFile)
	cfg.Data.CredentialsJSON = l.envString("INNOVIZ_GCS_CREDENTIALS_JSON", cfg.Data.CredentialsJSON)
	cfg.Data.Endpoint = l.envString("INNOVIZ_GCS_ENDPOINT", cfg.Data.Endpoint)
	cfg.Data.Dir = l.envString("INNOVIZ_DATA_DIR", cfg.Data.Dir)
	cfg.Data.Watch = l.envBool("INNOVIZ_DATA_WATCH", cfg.Data.Watch)
	cfg.Data.SQLitePath = l.envString("INNOVIZ_SQLITE_PATH", cfg.Data.SQLitePath)
	cfg.Data.MirrorDir = l.envString("INNOVIZ_MIRROR_DIR", cfg.Data.MirrorDir)
	cfg.Data.TTL = l.envDuration("INNOVIZ_DATA_TTL", cfg.Data.TTL)
	cfg.Data.LoadTimeout = l.envDuration("INNOVIZ_DATA_LOAD_TIMEOUT", cfg.Data.LoadTimeout)

	cfg.Cache.Backend = strings.ToLower(l.envString("INNOVIZ_CACHE_BACKEND", cfg.Cache.Backend))
	cfg.Cache.TTL = l.envDuration("INNOVIZ_CACHE_TTL", cfg.Cache.TTL)
	cfg.Cache.CleanupInterval = l.envDuration("INNOVIZ_CACHE_CLEANUP_INTERVAL", cfg.Cache.CleanupInterval)
	cfg.Cache.RedisAddr = l.envString("INNOVIZ_REDIS_ADDR", cfg.Cache.RedisAddr)
	cfg.Cache.RedisPassword = l.envString("INNOVIZ_REDIS_PASSWORD", cfg.Cache.RedisPassword)
	cfg.Cache.RedisDB = l.envInt("INNOVIZ_REDIS_DB", cfg.Cache.RedisDB)
	cfg.Cache.BadgerPath = l.envString("INNOVIZ_BADGER_PATH", cfg.Cache.BadgerPath)

	cfg.API.ReloadToken = l.envString("INNOVIZ_RELOAD_TOKEN", cfg.API.ReloadToken)
	cfg.API.RateLimitRPM = l.envInt("INNOVIZ_RATE_LIMIT_RPM", cfg.API.RateLimitRPM)
	cfg.API.ReloadRateLimitRPM = l.envInt("INNOVIZ_RELOAD_RATE_LIMIT_RPM", cfg.API.ReloadRateLimitRPM)
	if raw := l.envString("INNOVIZ_ALLOWED_ORIGINS", ""); raw != "" {
		cfg.API.AllowedOrigins = splitList(raw)
	}

	cfg.Telemetry.Enabled = l.envBool("INNOVIZ_TRACING_ENABLED", cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = strings.ToLower(l.envString("INNOVIZ_TRACING_EXPORTER", cfg.Telemetry.Exporter))
	cfg.Telemetry.Endpoint = l.envString("INNOVIZ_TRACING_ENDPOINT", cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = l.envFloat("INNOVIZ_TRACING_SAMPLING_RATE", cfg.Telemetry.SamplingRate)
	cfg.Telemetry.Environment = l.envString("INNOVIZ_ENVIRONMENT", cfg.Telemetry.Environment)
}

// splitList splits a comma-separated ENV value, dropping empty items.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
