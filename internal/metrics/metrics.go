// SPDX-License-Identifier: MIT

// Package metrics holds the Prometheus collectors of the innoviz service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeMirror  = "mirror"
)

var (
	// Source metrics
	sourceFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "innoviz_source_fetch_total",
		Help: "Object fetches per source kind by outcome",
	}, []string{"source", "outcome"}) // outcome=success|failure|mirror

	sourceFetchBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "innoviz_source_fetch_bytes_total",
		Help: "Bytes read from each source kind",
	}, []string{"source"})

	// Snapshot metrics
	snapshotLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "innoviz_snapshot_loads_total",
		Help: "Dataset snapshot loads by outcome",
	}, []string{"outcome"})

	snapshotLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "innoviz_snapshot_load_duration_seconds",
		Help:    "Time spent fetching and decoding a full snapshot",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	})

	snapshotRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "innoviz_snapshot_rows",
		Help: "Rows per table in the current snapshot",
	}, []string{"table"})

	snapshotAge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "innoviz_snapshot_loaded_timestamp_seconds",
		Help: "Unix time the current snapshot was loaded",
	})

	snapshotStaleServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "innoviz_snapshot_stale_served_total",
		Help: "Times a stale snapshot was served because a reload failed",
	})

	snapshotValidationErrors = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "innoviz_snapshot_validation_errors",
		Help: "Validation problems found in the current snapshot",
	})

	// View metrics
	viewCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "innoviz_view_cache_total",
		Help: "View cache lookups by backend and result",
	}, []string{"backend", "result"}) // result=hit|miss

	viewsRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "innoviz_views_rendered_total",
		Help: "Profile views rendered by kind",
	}, []string{"view"})

	viewErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "innoviz_view_errors_total",
		Help: "Profile view failures by kind and reason",
	}, []string{"view", "reason"})
)

func IncSourceFetch(source, outcome string) { sourceFetchTotal.WithLabelValues(source, outcome).Inc() }

func AddSourceBytes(source string, n int) { sourceFetchBytes.WithLabelValues(source).Add(float64(n)) }

// RecordSnapshotLoad records one snapshot load attempt.
func RecordSnapshotLoad(d time.Duration, err error) {
	snapshotLoadDuration.Observe(d.Seconds())
	if err != nil {
		snapshotLoadsTotal.WithLabelValues(OutcomeFailure).Inc()
		return
	}
	snapshotLoadsTotal.WithLabelValues(OutcomeSuccess).Inc()
}

// RecordSnapshot publishes the shape of a freshly loaded snapshot.
func RecordSnapshot(rows map[string]int, loadedAt time.Time, validationErrors int) {
	for table, n := range rows {
		snapshotRows.WithLabelValues(table).Set(float64(n))
	}
	snapshotAge.Set(float64(loadedAt.Unix()))
	snapshotValidationErrors.Set(float64(validationErrors))
}

func IncStaleServed() { snapshotStaleServed.Inc() }

// RecordViewCache records a cache lookup result.
func RecordViewCache(backend string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	viewCacheTotal.WithLabelValues(backend, result).Inc()
}

func IncViewRendered(view string) { viewsRendered.WithLabelValues(view).Inc() }

func IncViewError(view, reason string) { viewErrors.WithLabelValues(view, reason).Inc() }
