package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Nexora-Open-Source/rss-feed-tools/config"
	_ "github.com/Nexora-Open-Source/rss-feed-tools/docs"
	"github.com/Nexora-Open-Source/rss-feed-tools/handlers"
	"github.com/Nexora-Open-Source/rss-feed-tools/middleware"
	"github.com/Nexora-Open-Source/rss-feed-tools/monitoring"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// newRouter registers every route. Probes, metrics and docs skip rate limiting.
func newRouter(handler *handlers.Handler, limiter *RateLimiter) *mux.Router {
	router := mux.NewRouter()

	monitoring.SetupMetricsEndpoint(router)

	router.HandleFunc("/health", handler.HandleHealthCheck).Methods("GET")
	router.HandleFunc("/health/live", handler.HandleLivenessCheck).Methods("GET")
	router.HandleFunc("/health/ready", handler.HandleReadinessCheck).Methods("GET")

	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	router.HandleFunc("/parse_rss", MonitoringMiddleware(RateLimitMiddleware(limiter, handler.HandleParseRSS))).Methods("GET")
	router.HandleFunc("/feeds", MonitoringMiddleware(RateLimitMiddleware(limiter, handler.HandleGetFeeds))).Methods("GET")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.RespondNotFound(w, fmt.Errorf("route %s not found", r.URL.Path), middleware.RequestID(w, r))
	})

	return router
}

// newServerHandler wraps the router with request logging and CORS
func newServerHandler(handler *handlers.Handler, limiter *RateLimiter, cfg *config.Config) http.Handler {
	withLogging := middleware.LoggingMiddleware(newRouter(handler, limiter))
	return CORSMiddleware(withLogging, cfg)
}

// MonitoringMiddleware adds metrics and tracing to HTTP handlers
func MonitoringMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx, span := monitoring.CreateSpan(r.Context(), fmt.Sprintf("%s %s", r.Method, r.URL.Path))
		defer span.End()

		monitoring.SetSpanAttributes(span, map[string]interface{}{
			"http.method":     r.Method,
			"http.url":        r.URL.String(),
			"http.user_agent": r.UserAgent(),
			"remote.addr":     r.RemoteAddr,
		})

		r = r.WithContext(ctx)
		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		monitoring.RecordHTTPRequest(r.Method, routeTemplate(r), fmt.Sprintf("%d", rw.statusCode), duration)

		monitoring.SetSpanAttributes(span, map[string]interface{}{
			"http.status_code": rw.statusCode,
			"duration_seconds": duration,
		})
		if rw.statusCode >= 400 {
			monitoring.SetSpanError(span, fmt.Errorf("HTTP %d", rw.statusCode))
		}
	}
}

// routeTemplate keeps the endpoint label bounded to registered routes
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

// statusRecorder captures the status code written by the wrapped handler
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
