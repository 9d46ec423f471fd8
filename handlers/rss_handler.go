/*
Package handlers contains the core HTTP handlers for parsing RSS feeds on demand.

Key Functions:
  - HandleParseRSS: Fetches the feed at ?url= and returns it reshaped as JSON.
  - HandleGetFeeds: Provides a list of predefined RSS feed sources.

Usage:

	router.HandleFunc("/parse_rss", handler.HandleParseRSS).Methods("GET")
	router.HandleFunc("/feeds", handler.HandleGetFeeds).Methods("GET")
*/
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Nexora-Open-Source/rss-feed-tools/middleware"
	"github.com/Nexora-Open-Source/rss-feed-tools/monitoring"
	"github.com/Nexora-Open-Source/rss-feed-tools/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

// Error messages below are returned to clients verbatim.
var (
	// ErrMissingParameter is returned when the url query parameter is absent or empty
	ErrMissingParameter = errors.New("Missing RSS url")
	// ErrFeedParse is returned when the feed could not be fetched or parsed
	ErrFeedParse = errors.New("Failed to parse RSS feed.")
)

// parseRSSQuery binds the /parse_rss query string
type parseRSSQuery struct {
	URL string `validate:"required"`
}

// @Summary Parse an RSS feed
// @Description Fetches the feed at the given URL and returns its metadata and entries. Absent fields are empty strings.
// @Tags RSS Feed Operations
// @Produce json
// @Param url query string true "Feed URL"
// @Success 200 {object} types.FeedResult "Parsed feed"
// @Failure 400 {object} middleware.APIError "Missing RSS url / Failed to parse RSS feed."
// @Router /parse_rss [get]
func (h *Handler) HandleParseRSS(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestID(w, r)

	query := parseRSSQuery{URL: r.URL.Query().Get("url")}
	if err := validate.Struct(query); err != nil {
		middleware.RespondValidationError(w, ErrMissingParameter, requestID)
		return
	}

	h.Logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"url":        query.URL,
		"action":     "parse_rss",
	}).Info("Processing RSS feed request")

	host := feedHost(query.URL)
	start := time.Now()

	feed, err := h.FeedParser.ParseURL(r.Context(), query.URL)
	duration := time.Since(start).Seconds()
	if err != nil {
		monitoring.RecordFeedParse(monitoring.StatusFailure, duration, -1)
		h.Logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"url":        query.URL,
			"host":       host,
			"error":      err.Error(),
		}).Warn("Failed to parse RSS feed")
		middleware.RespondFeedParseError(w, fmt.Errorf("%w: %v", ErrFeedParse, err), requestID)
		return
	}

	result := utils.ProjectFeed(feed)
	monitoring.RecordFeedParse(monitoring.StatusSuccess, duration, len(result.Entries))
	monitoring.AddSpanEvent(trace.SpanFromContext(r.Context()), "feed.parsed", map[string]interface{}{
		"feed.host":    host,
		"feed.entries": len(result.Entries),
	})

	h.Logger.WithFields(logrus.Fields{
		"request_id":    requestID,
		"url":           query.URL,
		"host":          host,
		"entries_count": len(result.Entries),
		"duration_ms":   int64(duration * 1000),
	}).Info("RSS feed parsed successfully")

	h.respondJSON(w, http.StatusOK, result, requestID)
}

// feedHost names a feed URL's host in logs and span events
func feedHost(feedURL string) string {
	parsed, err := url.Parse(feedURL)
	if err != nil || parsed.Hostname() == "" {
		return "invalid"
	}
	return parsed.Hostname()
}
