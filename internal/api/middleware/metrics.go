// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HeaderViewCache is set by the view handlers to HIT or MISS.
const HeaderViewCache = "X-Cache"

var (
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "innoviz_http_request_duration_seconds",
		Help:    "Time to serve a request, by route pattern",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "route", "status"})

	httpRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "innoviz_http_requests_in_flight",
		Help: "Current number of HTTP requests being served",
	})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "innoviz_http_response_size_bytes",
		Help:    "Response body sizes; SVG views dominate the upper buckets",
		Buckets: prometheus.ExponentialBuckets(256, 4, 8),
	}, []string{"route"})

	httpViewCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "innoviz_http_view_cache_total",
		Help: "View responses by cache result",
	}, []string{"route", "result"})
)

// Metrics records latency, body size and view cache results per chi route
// pattern. Unrouted requests are labelled "unmatched" so arbitrary paths
// never become label values.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			httpRequestsInFlight.Inc()
			defer httpRequestsInFlight.Dec()

			mw := &metricsWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(mw, r)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil {
				if p := rc.RoutePattern(); p != "" {
					route = p
				}
			}

			httpRequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(mw.status)).
				Observe(time.Since(start).Seconds())
			if mw.bytes > 0 {
				httpResponseSize.WithLabelValues(route).Observe(float64(mw.bytes))
			}
			if result := mw.Header().Get(HeaderViewCache); result != "" {
				httpViewCache.WithLabelValues(route, result).Inc()
			}
		})
	}
}

type metricsWriter struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (mw *metricsWriter) WriteHeader(status int) {
	if !mw.wroteHeader {
		mw.status = status
		mw.wroteHeader = true
	}
	mw.ResponseWriter.WriteHeader(status)
}

func (mw *metricsWriter) Write(b []byte) (int, error) {
	if !mw.wroteHeader {
		mw.WriteHeader(http.StatusOK)
	}
	n, err := mw.ResponseWriter.Write(b)
	mw.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (mw *metricsWriter) Unwrap() http.ResponseWriter { return mw.ResponseWriter }
