// Package monitoring provides metrics and observability for the RSS feed tools
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Feed parsing metrics. The feed URL is caller supplied, so only the outcome
	// is a label; hosts go to logs and spans.
	feedParseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rss_feed_parse_total",
			Help: "Total number of RSS feed parse attempts",
		},
		[]string{"status"},
	)

	feedParseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rss_feed_parse_duration_seconds",
			Help:    "Duration of RSS feed fetch and parse operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	feedEntriesCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rss_feed_entries_count",
			Help:    "Number of entries returned from parsed RSS feeds",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rss_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rss_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	rateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rss_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	trackedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rss_rate_limiter_clients",
			Help: "Number of clients currently tracked by the rate limiter",
		},
	)

	alertsFired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rss_alerts_fired_total",
			Help: "Total number of alerts fired",
		},
		[]string{"type", "severity"},
	)
)

// Feed parse outcomes
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// RecordFeedParse records metrics for one feed parse and feeds the alerting window.
// entriesCount is ignored when negative.
func RecordFeedParse(status string, duration float64, entriesCount int) {
	feedParseTotal.WithLabelValues(status).Inc()
	feedParseDuration.WithLabelValues(status).Observe(duration)
	if entriesCount >= 0 {
		feedEntriesCount.Observe(float64(entriesCount))
	}
	DefaultFeedStats.Record(status == StatusSuccess, duration)
}

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, endpoint, status string, duration float64) {
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration)
}

// RecordRateLimited counts a request rejected by the rate limiter
func RecordRateLimited() {
	rateLimitedTotal.Inc()
}

// UpdateTrackedClients updates the rate limiter client gauge
func UpdateTrackedClients(count int) {
	trackedClients.Set(float64(count))
}

func recordAlert(alert *Alert) {
	alertsFired.WithLabelValues(string(alert.Type), string(alert.Severity)).Inc()
}
