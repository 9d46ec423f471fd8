package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Nexora-Open-Source/rss-feed-tools/middleware"
)

var startTime = time.Now()

// HealthStatus represents the health check response structure
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
	Uptime    string            `json:"uptime"`
}

// HandleHealthCheck provides a health check endpoint for monitoring
func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestID(w, r)

	health := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   "1.0.0",
		Services:  make(map[string]string),
		Uptime:    time.Since(startTime).String(),
	}

	if h.FeedParser == nil {
		health.Status = "unhealthy"
		health.Services["feed_parser"] = "unhealthy: not configured"
	} else {
		health.Services["feed_parser"] = "healthy"
	}

	h.respondJSON(w, http.StatusOK, health, requestID)
}

// HandleLivenessCheck provides a simple liveness probe
func (h *Handler) HandleLivenessCheck(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestID(w, r)
	response := map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	}

	h.respondJSON(w, http.StatusOK, response, requestID)
}

// HandleReadinessCheck provides a readiness probe
func (h *Handler) HandleReadinessCheck(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestID(w, r)

	if h.FeedParser == nil {
		middleware.RespondServiceUnavailable(w, errors.New("feed parser is not configured"), requestID)
		return
	}

	response := map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().Format(time.RFC3339),
		"services": map[string]string{
			"feed_parser": "ready",
		},
	}

	h.respondJSON(w, http.StatusOK, response, requestID)
}
