// Package metrics registers and records the platform's Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_http_requests_total",
			Help: "Total number of gateway HTTP requests labeled by route, method and status code",
		},
		[]string{"route", "method", "status"},
	)
	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_http_request_duration_seconds",
			Help:    "Duration of gateway HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	userUpsertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "directory_user_upserts_total",
			Help: "Total number of user upserts labeled by outcome (created or updated)",
		},
		[]string{"outcome"},
	)
	bundleLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_bundle_requests_total",
			Help: "Total number of translation bundle requests labeled by language and status",
		},
		[]string{"language", "status"},
	)
	botCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of bot commands received labeled by command and status",
		},
		[]string{"command", "status"},
	)
	botFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_fallback_replies_total",
			Help: "Total number of replies served from the built-in fallback message set",
		},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by kind and severity",
		},
		[]string{"kind", "severity"},
	)
)

// RecordHTTPRequest increments the request counter and records duration.
func RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	if route == "" {
		route = "unknown"
	}

	httpRequestsTotal.WithLabelValues(route, method, statusLabel(status)).Inc()
	httpRequestDurationSeconds.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordUserUpsert tracks created-versus-updated upsert outcomes.
func RecordUserUpsert(created bool) {
	outcome := "updated"
	if created {
		outcome = "created"
	}
	userUpsertsTotal.WithLabelValues(outcome).Inc()
}

// RecordBundleRequest tracks translation bundle resolutions.
func RecordBundleRequest(language, status string) {
	if language == "" {
		language = "unknown"
	}
	if status == "" {
		status = "unknown"
	}
	bundleLoadsTotal.WithLabelValues(language, status).Inc()
}

// RecordBotCommand increments bot command counters.
func RecordBotCommand(command, status string) {
	if command == "" {
		command = "unknown"
	}
	if status == "" {
		status = "unknown"
	}
	botCommandsTotal.WithLabelValues(command, status).Inc()
}

// RecordBotFallback counts replies served from the built-in fallback set.
func RecordBotFallback() {
	botFallbacksTotal.Inc()
}

// RecordError increments error counters with taxonomy metadata.
func RecordError(kind, severity string) {
	if kind == "" {
		kind = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}
	errorsTotal.WithLabelValues(kind, severity).Inc()
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
