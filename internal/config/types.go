// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import "time"

// Source kinds.
const (
	SourceGCS    = "gcs"
	SourceLocal  = "local"
	SourceSQLite = "sqlite"
)

// Dataset file formats.
const (
	FormatParquet = "parquet"
	FormatCSV     = "csv"
)

// View cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheBadger = "badger"
	CacheNone   = "none"
)

// Trace exporters.
const (
	ExporterGRPC = "grpc"
	ExporterHTTP = "http"
)

// AppConfig is the fully resolved runtime configuration.
type AppConfig struct {
	Version    string `yaml:"-"`
	LogLevel   string `yaml:"logLevel"`
	LogService string `yaml:"logService"`

	Server    ServerConfig    `yaml:"server"`
	Data      DataConfig      `yaml:"data"`
	Cache     CacheConfig     `yaml:"cache"`
	API       APIConfig       `yaml:"api"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string `yaml:"listenAddr"`

	// ReadTimeout is the maximum duration for reading the entire request
	ReadTimeout time.Duration `yaml:"readTimeout"`

	// WriteTimeout is the maximum duration before timing out writes of the response
	WriteTimeout time.Duration `yaml:"writeTimeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	IdleTimeout time.Duration `yaml:"idleTimeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header's keys and values
	MaxHeaderBytes int `yaml:"maxHeaderBytes"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// DataConfig selects where the aggregated tables come from.
type DataConfig struct {
	Source string `yaml:"source"`
	Format string `yaml:"format"`

	// GCS
	Bucket string `yaml:"bucket"`
	// QuotaProject is billed for the requests instead of the credentials'
	// own project. It does not select the bucket.
	QuotaProject    string `yaml:"quotaProject"`
	CredentialsFile string `yaml:"credentialsFile"`
	CredentialsJSON string `yaml:"credentialsJSON"`
	// Endpoint overrides the storage API endpoint, for emulators.
	Endpoint string `yaml:"endpoint"`

	// local
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`

	// sqlite
	SQLitePath string `yaml:"sqlitePath"`

	// MirrorDir keeps the last good copy of every remote object on disk.
	MirrorDir string `yaml:"mirrorDir"`

	TTL         time.Duration `yaml:"ttl"`
	LoadTimeout time.Duration `yaml:"loadTimeout"`
}

// CacheConfig configures the rendered view cache.
type CacheConfig struct {
	Backend         string        `yaml:"backend"`
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanupInterval"`
	RedisAddr       string        `yaml:"redisAddr"`
	RedisPassword   string        `yaml:"redisPassword"`
	RedisDB         int           `yaml:"redisDB"`
	BadgerPath      string        `yaml:"badgerPath"`
}

// APIConfig holds HTTP API behaviour.
type APIConfig struct {
	// ReloadToken protects POST /api/v1/reload. Empty disables the check.
	ReloadToken        string `yaml:"reloadToken"`
	RateLimitRPM       int    `yaml:"rateLimitRPM"`
	ReloadRateLimitRPM int    `yaml:"reloadRateLimitRPM"`

	// AllowedOrigins enables CORS for the listed origins; "*" allows any.
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"samplingRate"`
	Environment  string  `yaml:"environment"`
}
