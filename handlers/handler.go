/*
Package handlers provides HTTP handlers with dependency injection support.

This package defines the Handler struct that contains all service dependencies,
eliminating global variables and enabling better testability and separation of concerns.
*/
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Nexora-Open-Source/rss-feed-tools/utils"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// validate is shared by all handlers; validator caches struct metadata and is safe for concurrent use
var validate = validator.New()

// Handler contains all service dependencies for HTTP handlers
type Handler struct {
	FeedParser  utils.FeedParser
	Logger      *logrus.Logger
	SourcesFile string
}

// NewHandler creates a new handler instance with injected dependencies
func NewHandler(feedParser utils.FeedParser, sourcesFile string, logger *logrus.Logger) *Handler {
	return &Handler{
		FeedParser:  feedParser,
		Logger:      logger,
		SourcesFile: sourcesFile,
	}
}

// respondJSON writes payload with status. A failed write usually means the
// client went away, so it is only logged.
func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload interface{}, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"status":     status,
			"error":      err.Error(),
		}).Warn("Failed to write response")
	}
}
