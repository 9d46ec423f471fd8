/*
Package middleware provides HTTP middleware for logging, error handling, and request/response tracking.
*/
package middleware

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Nexora-Open-Source/rss-feed-tools/utils"
	"github.com/sirupsen/logrus"
)

// Logger is the global structured logger
var Logger *logrus.Logger

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

// ResponseWriter captures response data for logging
type ResponseWriter struct {
	http.ResponseWriter
	status int
	body   *bytes.Buffer
}

func (rw *ResponseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// maxLoggedBody caps how much of a response is kept for the log line.
// Request bodies are never read; every route is a GET.
const maxLoggedBody = 1024

func (rw *ResponseWriter) Write(b []byte) (int, error) {
	if room := maxLoggedBody - rw.body.Len(); room > 0 {
		rw.body.Write(b[:min(room, len(b))])
	}
	return rw.ResponseWriter.Write(b)
}

// NewLogger builds a JSON logger writing to out at the given level.
// Unknown levels fall back to info.
func NewLogger(level string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

// InitLogger initializes the structured logger
func InitLogger() {
	Logger = NewLogger(os.Getenv("LOG_LEVEL"), os.Stdout)
}

// RequestID returns the caller-supplied request ID, or a fresh one.
// The ID is echoed on the response.
func RequestID(w http.ResponseWriter, r *http.Request) string {
	requestID := r.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = utils.GenerateRequestID()
	}
	w.Header().Set(RequestIDHeader, requestID)
	return requestID
}

// LoggingMiddleware logs HTTP requests and responses
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &ResponseWriter{
			ResponseWriter: w,
			status:         http.StatusOK,
			body:           bytes.NewBuffer(nil),
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)

		requestID := rw.Header().Get(RequestIDHeader)
		if requestID == "" {
			requestID = r.Header.Get(RequestIDHeader)
		}

		fields := logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"query":       r.URL.RawQuery,
			"remote_addr": r.RemoteAddr,
			"user_agent":  r.UserAgent(),
			"status":      rw.status,
			"duration_ms": duration.Milliseconds(),
			"request_id":  requestID,
		}

		// Add response body for errors (limit size)
		if rw.status >= 400 && rw.body.Len() > 0 && rw.body.Len() < maxLoggedBody {
			fields["response_body"] = rw.body.String()
		}

		switch {
		case rw.status >= 500:
			logger().WithFields(fields).Error("Request completed with server error")
		case rw.status >= 400:
			logger().WithFields(fields).Warn("Request completed with client error")
		default:
			logger().WithFields(fields).Info("Request completed successfully")
		}
	})
}
