package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/Nexora-Open-Source/rss-feed-tools/middleware"
	"github.com/Nexora-Open-Source/rss-feed-tools/types"
	"github.com/sirupsen/logrus"
)

var defaultFeedSources = []types.FeedSource{
	{Name: "BBC News", URL: "http://feeds.bbci.co.uk/news/rss.xml"},
	{Name: "TechCrunch", URL: "https://techcrunch.com/feed/"},
	{Name: "The Verge", URL: "https://www.theverge.com/rss/index.xml"},
	{Name: "Hacker News", URL: "https://hnrss.org/frontpage"},
}

// @Summary List predefined feed sources
// @Tags RSS Feed Operations
// @Produce json
// @Success 200 {array} types.FeedSource
// @Failure 500 {object} middleware.APIError
// @Router /feeds [get]
func (h *Handler) HandleGetFeeds(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestID(w, r)

	feeds, err := h.loadFeedSources()
	if err != nil {
		h.Logger.WithFields(logrus.Fields{
			"request_id":   requestID,
			"sources_file": h.SourcesFile,
			"error":        err.Error(),
		}).Error("Failed to load predefined feeds")
		middleware.RespondInternalError(w, err, requestID)
		return
	}

	h.Logger.WithFields(logrus.Fields{
		"request_id":  requestID,
		"feeds_count": len(feeds),
	}).Debug("Feed list retrieved successfully")

	h.respondJSON(w, http.StatusOK, feeds, requestID)
}

// loadFeedSources reads the sources file when one is configured
func (h *Handler) loadFeedSources() ([]types.FeedSource, error) {
	if h.SourcesFile == "" {
		return defaultFeedSources, nil
	}

	content, err := os.ReadFile(h.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("read feed sources: %w", err)
	}

	var feeds []types.FeedSource
	if err := json.Unmarshal(content, &feeds); err != nil {
		return nil, fmt.Errorf("decode feed sources: %w", err)
	}
	if feeds == nil {
		feeds = []types.FeedSource{}
	}
	return feeds, nil
}
