package monitoring

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []*Alert
	err    error
}

func (n *recordingNotifier) Name() string { return "recording" }

func (n *recordingNotifier) Send(alert *Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.alerts)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestFeedStatsSwap(t *testing.T) {
	stats := &FeedStats{}
	stats.Record(true, 1.0)
	stats.Record(false, 3.0)
	stats.Record(false, 2.0)

	window := stats.Swap()
	assert.Equal(t, 3, window.Attempts)
	assert.Equal(t, 2, window.Failures)
	assert.InDelta(t, 2.0, window.AvgDuration, 1e-9)
	assert.InDelta(t, 2.0/3.0, window.FailureRate(), 1e-9)

	empty := stats.Swap()
	assert.Equal(t, FeedWindow{}, empty)
	assert.Equal(t, 0.0, empty.FailureRate())
}

func TestAlertManagerFailureRate(t *testing.T) {
	stats := &FeedStats{}
	am := NewAlertManager(testLogger(), stats, AlertConfig{
		FailureRateThreshold: 0.5,
		MinSamples:           4,
	})
	defer am.Stop()

	notifier := &recordingNotifier{}
	am.AddNotifier(notifier)

	t.Run("below min samples", func(t *testing.T) {
		stats.Record(false, 0.1)
		stats.Record(false, 0.1)
		am.evaluateAllRules()
		assert.Empty(t, am.GetActiveAlerts())
	})

	t.Run("threshold exceeded", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			stats.Record(false, 0.1)
		}
		stats.Record(true, 0.1)
		am.evaluateAllRules()

		active := am.GetActiveAlerts()
		require.Len(t, active, 1)
		assert.Equal(t, AlertTypeFeedFailure, active[0].Type)
		assert.Equal(t, SeverityHigh, active[0].Severity)
		assert.Equal(t, 5, active[0].Annotations["attempts"])
		assert.Equal(t, 1, notifier.count())
	})

	t.Run("no duplicate while active", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			stats.Record(false, 0.1)
		}
		am.evaluateAllRules()
		assert.Len(t, am.GetActiveAlerts(), 1)
		assert.Equal(t, 1, notifier.count())
	})

	t.Run("resolves when healthy", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			stats.Record(true, 0.1)
		}
		am.evaluateAllRules()
		assert.Empty(t, am.GetActiveAlerts())
	})
}

func TestAlertManagerLatency(t *testing.T) {
	stats := &FeedStats{}
	am := NewAlertManager(testLogger(), stats, AlertConfig{
		LatencyThreshold: 2 * time.Second,
		MinSamples:       1,
	})
	defer am.Stop()

	stats.Record(true, 3.5)
	am.evaluateAllRules()

	active := am.GetActiveAlerts()
	require.Len(t, active, 1)
	assert.Equal(t, AlertTypeHighLatency, active[0].Type)
}

func TestAlertManagerDisabledRules(t *testing.T) {
	stats := &FeedStats{}
	am := NewAlertManager(testLogger(), stats, AlertConfig{})
	defer am.Stop()

	for i := 0; i < 20; i++ {
		stats.Record(false, 60)
	}
	am.evaluateAllRules()
	assert.Empty(t, am.GetActiveAlerts())
}

func TestAlertManagerNotifierErrorIsLogged(t *testing.T) {
	stats := &FeedStats{}
	am := NewAlertManager(testLogger(), stats, AlertConfig{FailureRateThreshold: 0.1, MinSamples: 1})
	defer am.Stop()

	notifier := &recordingNotifier{err: errors.New("webhook down")}
	am.AddNotifier(notifier)

	stats.Record(false, 0.1)
	assert.NotPanics(t, am.evaluateAllRules)
	assert.Equal(t, 1, notifier.count())
}

func TestAlertManagerStartStop(t *testing.T) {
	stats := &FeedStats{}
	am := NewAlertManager(testLogger(), stats, AlertConfig{
		EvalInterval:         10 * time.Millisecond,
		FailureRateThreshold: 0.5,
		MinSamples:           1,
	})
	notifier := &recordingNotifier{}
	am.AddNotifier(notifier)

	stats.Record(false, 0.1)
	am.Start()
	defer am.Stop()

	assert.Eventually(t, func() bool { return notifier.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestMetricsEndpoint(t *testing.T) {
	RecordFeedParse(StatusSuccess, 0.25, 3)
	RecordHTTPRequest("GET", "/parse_rss", "200", 0.3)
	RecordRateLimited()
	DefaultFeedStats.Swap()

	router := mux.NewRouter()
	SetupMetricsEndpoint(router)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "rss_feed_parse_total"))
	assert.True(t, strings.Contains(body, "rss_http_requests_total"))
	assert.True(t, strings.Contains(body, "rss_rate_limited_total"))
}

func TestFeedParseSeriesAreBoundedByStatus(t *testing.T) {
	for i := 0; i < 20; i++ {
		status := StatusSuccess
		if i%2 == 0 {
			status = StatusFailure
		}
		RecordFeedParse(status, 0.1, i)
	}
	DefaultFeedStats.Swap()

	assert.Equal(t, 2, testutil.CollectAndCount(feedParseTotal))
	assert.Equal(t, 2, testutil.CollectAndCount(feedParseDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(feedEntriesCount))
}

func TestTracingSpans(t *testing.T) {
	tp, err := InitTracing("rss-feed-tools-test", "")
	require.NoError(t, err)
	defer ShutdownTracing(context.Background(), tp)

	ctx, span := CreateSpan(context.Background(), "test-span")
	assert.NotNil(t, ctx)
	assert.True(t, span.SpanContext().IsValid())

	assert.NotPanics(t, func() {
		SetSpanAttributes(span, map[string]interface{}{"http.status_code": 200})
		AddSpanEvent(span, "parsed", map[string]interface{}{"entries": 3})
		SetSpanError(span, errors.New("boom"))
		span.End()
	})
}
