// Package monitoring provides alerting capabilities for the RSS feed tools
package monitoring

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// AlertSeverity represents the severity level of an alert
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// AlertType represents the type of alert
type AlertType string

const (
	AlertTypeFeedFailure AlertType = "feed_failure"
	AlertTypeHighLatency AlertType = "high_latency"
)

// Alert represents an alert
type Alert struct {
	ID          string                 `json:"id"`
	Type        AlertType              `json:"type"`
	Severity    AlertSeverity          `json:"severity"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Timestamp   time.Time              `json:"timestamp"`
	Labels      map[string]string      `json:"labels"`
	Annotations map[string]interface{} `json:"annotations"`
	Resolved    bool                   `json:"resolved"`
	ResolvedAt  *time.Time             `json:"resolved_at,omitempty"`
}

// AlertRule defines a rule for generating alerts from a feed window
type AlertRule struct {
	Name        string
	Type        AlertType
	Severity    AlertSeverity
	Condition   func(FeedWindow) bool
	Title       string
	Description string
	Labels      map[string]string
	Enabled     bool
}

// AlertConfig holds the thresholds for the default rules
type AlertConfig struct {
	EvalInterval         time.Duration
	FailureRateThreshold float64
	LatencyThreshold     time.Duration
	MinSamples           int
}

// Notifier interface for sending alert notifications
type Notifier interface {
	Send(alert *Alert) error
	Name() string
}

// LogNotifier sends alerts to the log
type LogNotifier struct {
	logger *logrus.Logger
}

func (n *LogNotifier) Name() string {
	return "log"
}

func (n *LogNotifier) Send(alert *Alert) error {
	level := logrus.InfoLevel
	switch alert.Severity {
	case SeverityHigh:
		level = logrus.WarnLevel
	case SeverityCritical:
		level = logrus.ErrorLevel
	}

	n.logger.WithFields(logrus.Fields{
		"alert_id":    alert.ID,
		"alert_type":  alert.Type,
		"severity":    alert.Severity,
		"labels":      alert.Labels,
		"annotations": alert.Annotations,
	}).Log(level, fmt.Sprintf("ALERT: %s - %s", alert.Title, alert.Description))

	return nil
}

// NewLogNotifier creates a new log notifier
func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// AlertManager evaluates feed parse windows against rules and notifies
type AlertManager struct {
	alerts    map[string]*Alert
	mutex     sync.RWMutex
	logger    *logrus.Logger
	stats     *FeedStats
	rules     []AlertRule
	notifiers []Notifier
	interval  time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewAlertManager creates an alert manager. Call Start to begin evaluation.
func NewAlertManager(logger *logrus.Logger, stats *FeedStats, cfg AlertConfig) *AlertManager {
	ctx, cancel := context.WithCancel(context.Background())

	interval := cfg.EvalInterval
	if interval <= 0 {
		interval = time.Minute
	}

	return &AlertManager{
		alerts:    make(map[string]*Alert),
		logger:    logger,
		stats:     stats,
		rules:     defaultAlertRules(cfg),
		notifiers: []Notifier{NewLogNotifier(logger)},
		interval:  interval,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// defaultAlertRules returns the feed failure and latency rules
func defaultAlertRules(cfg AlertConfig) []AlertRule {
	labels := map[string]string{"service": "rss-feed-tools"}

	return []AlertRule{
		{
			Name:     "High Feed Failure Rate",
			Type:     AlertTypeFeedFailure,
			Severity: SeverityHigh,
			Condition: func(w FeedWindow) bool {
				return w.Attempts >= cfg.MinSamples && w.FailureRate() > cfg.FailureRateThreshold
			},
			Title:       "High RSS feed failure rate detected",
			Description: fmt.Sprintf("RSS feed failure rate exceeded %.0f%%", cfg.FailureRateThreshold*100),
			Labels:      labels,
			Enabled:     cfg.FailureRateThreshold > 0,
		},
		{
			Name:     "Slow Feed Parsing",
			Type:     AlertTypeHighLatency,
			Severity: SeverityMedium,
			Condition: func(w FeedWindow) bool {
				return w.Attempts >= cfg.MinSamples && w.AvgDuration > cfg.LatencyThreshold.Seconds()
			},
			Title:       "RSS feed parsing is slow",
			Description: fmt.Sprintf("Average feed parse time exceeded %s", cfg.LatencyThreshold),
			Labels:      labels,
			Enabled:     cfg.LatencyThreshold > 0,
		},
	}
}

// Start runs the evaluation loop until Stop is called
func (am *AlertManager) Start() {
	go am.evaluateRules()
}

// evaluateRules runs the alert evaluation loop
func (am *AlertManager) evaluateRules() {
	ticker := time.NewTicker(am.interval)
	defer ticker.Stop()

	for {
		select {
		case <-am.ctx.Done():
			return
		case <-ticker.C:
			am.evaluateAllRules()
		}
	}
}

// evaluateAllRules evaluates all enabled rules against one feed window.
// Active alerts whose condition no longer holds are resolved.
func (am *AlertManager) evaluateAllRules() {
	window := am.stats.Swap()

	am.mutex.RLock()
	rules := make([]AlertRule, len(am.rules))
	copy(rules, am.rules)
	am.mutex.RUnlock()

	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}
		if rule.Condition(window) {
			am.triggerAlert(rule, window)
		} else {
			am.resolveType(rule.Type)
		}
	}
}

// triggerAlert creates and sends an alert unless one of the same type is active
func (am *AlertManager) triggerAlert(rule AlertRule, window FeedWindow) {
	alert := &Alert{
		ID:          fmt.Sprintf("%s-%d", rule.Type, time.Now().UnixNano()),
		Type:        rule.Type,
		Severity:    rule.Severity,
		Title:       rule.Title,
		Description: rule.Description,
		Timestamp:   time.Now(),
		Labels:      rule.Labels,
		Annotations: map[string]interface{}{
			"attempts":         window.Attempts,
			"failures":         window.Failures,
			"failure_rate":     window.FailureRate(),
			"avg_duration_sec": window.AvgDuration,
		},
	}

	am.mutex.Lock()
	for _, existingAlert := range am.alerts {
		if existingAlert.Type == rule.Type && !existingAlert.Resolved {
			am.mutex.Unlock()
			return
		}
	}
	am.alerts[alert.ID] = alert
	am.mutex.Unlock()

	recordAlert(alert)
	am.sendNotifications(alert)
}

// sendNotifications sends the alert to all notifiers
func (am *AlertManager) sendNotifications(alert *Alert) {
	am.mutex.RLock()
	notifiers := make([]Notifier, len(am.notifiers))
	copy(notifiers, am.notifiers)
	am.mutex.RUnlock()

	for _, notifier := range notifiers {
		if err := notifier.Send(alert); err != nil {
			am.logger.WithError(err).WithField("notifier", notifier.Name()).Error("Failed to send alert notification")
		}
	}
}

func (am *AlertManager) resolveType(alertType AlertType) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	now := time.Now()
	for id, alert := range am.alerts {
		if alert.Type == alertType && !alert.Resolved {
			alert.Resolved = true
			alert.ResolvedAt = &now

			am.logger.WithFields(logrus.Fields{
				"alert_id": id,
				"type":     alert.Type,
			}).Info("Alert resolved")
		}
	}
}

// GetActiveAlerts returns all active (unresolved) alerts
func (am *AlertManager) GetActiveAlerts() []*Alert {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	var activeAlerts []*Alert
	for _, alert := range am.alerts {
		if !alert.Resolved {
			activeAlerts = append(activeAlerts, alert)
		}
	}

	return activeAlerts
}

// AddNotifier adds a new notifier
func (am *AlertManager) AddNotifier(notifier Notifier) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	am.notifiers = append(am.notifiers, notifier)
}

// Stop stops the evaluation loop
func (am *AlertManager) Stop() {
	am.cancel()
}
