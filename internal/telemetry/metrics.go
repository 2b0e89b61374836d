// Package telemetry exposes Prometheus metrics for the decision service.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	httpDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// Decisions counts evaluations by feature and resolution reason.
	Decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decisions_total",
			Help: "Total feature decisions by reason",
		},
		[]string{"feature", "reason"},
	)

	// ConfigReloads counts configuration reloads by outcome.
	ConfigReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "config_reloads_total",
			Help: "Total configuration reloads",
		},
		[]string{"outcome"},
	)

	// SnapshotFeatures reports the number of features in the active snapshot.
	SnapshotFeatures = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "snapshot_features",
		Help: "Number of features in the active configuration snapshot",
	})

	// TrackingDropped counts decision events dropped by the dispatcher.
	TrackingDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracking_events_dropped_total",
		Help: "Total decision events dropped because the tracking queue was full",
	})
)

// Init registers all metrics with the default registry.
func Init() {
	prometheus.MustRegister(httpReqs, httpDur, Decisions, ConfigReloads, SnapshotFeatures, TrackingDropped)
}

// Middleware records request counts and durations labelled by chi route
// pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}

		httpReqs.WithLabelValues(route, r.Method, strconv.Itoa(ww.status)).Inc()
		httpDur.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
