// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"errors"
	"testing"
	"time"

	"github.com/ManuGH/innoviz/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Defaults(t *testing.T) {
	require.NoError(t, Validate(Defaults()))
}

func TestValidate_Cases(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		field  string
	}{
		{"unknown source", func(c *AppConfig) { c.Data.Source = "s3" }, "data.source"},
		{"unknown format", func(c *AppConfig) { c.Data.Format = "xlsx" }, "data.format"},
		{"local without dir", func(c *AppConfig) { c.Data.Source = SourceLocal }, "data.dir"},
		{"sqlite without path", func(c *AppConfig) { c.Data.Source = SourceSQLite }, "data.sqlitePath"},
		{"gcs without bucket", func(c *AppConfig) { c.Data.Bucket = "" }, "data.bucket"},
		{"both credentials", func(c *AppConfig) {
			c.Data.CredentialsFile = "/sa.json"
			c.Data.CredentialsJSON = "{}"
		}, "data.credentialsFile"},
		{"watch on gcs", func(c *AppConfig) { c.Data.Watch = true }, "data.watch"},
		{"ttl too short", func(c *AppConfig) { c.Data.TTL = time.Millisecond }, "data.ttl"},
		{"redis without addr", func(c *AppConfig) { c.Cache.Backend = CacheRedis }, "cache.redisAddr"},
		{"badger without path", func(c *AppConfig) { c.Cache.Backend = CacheBadger }, "cache.badgerPath"},
		{"bad listen", func(c *AppConfig) { c.Server.ListenAddr = "8080" }, "server.listenAddr"},
		{"bad origin", func(c *AppConfig) { c.API.AllowedOrigins = []string{"*", "ftp://example.org"} }, "api.allowedOrigins"},
		{"bad sampling", func(c *AppConfig) {
			c.Telemetry.Enabled = true
			c.Telemetry.SamplingRate = 2
		}, "telemetry.samplingRate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)

			var verr validate.ValidationError
			require.True(t, errors.As(err, &verr))
			fields := make([]string, 0, len(verr.Errors()))
			for _, e := range verr.Errors() {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.Data.Source = "ftp"
	cfg.Cache.Backend = "memcached"

	var verr validate.ValidationError
	require.True(t, errors.As(Validate(cfg), &verr))
	assert.GreaterOrEqual(t, len(verr.Errors()), 2)
}
