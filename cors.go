package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Nexora-Open-Source/rss-feed-tools/config"
)

// getAllowedOrigins returns the appropriate allowed origins based on environment
func getAllowedOrigins(corsConfig config.CORSConfig) []string {
	switch strings.ToLower(corsConfig.Environment) {
	case "production", "prod":
		return corsConfig.ProductionOrigins
	case "staging", "stage":
		return corsConfig.StagingOrigins
	default:
		return corsConfig.DevelopmentOrigins
	}
}

// matchesDomain reports whether origin is domain or one of its subdomains
func matchesDomain(origin, domain string) bool {
	if origin == "https://"+domain || origin == "http://"+domain {
		return true
	}
	return strings.HasSuffix(origin, "."+domain)
}

// isOriginAllowed checks if the origin is allowed based on CORS configuration
func isOriginAllowed(origin string, corsConfig config.CORSConfig) bool {
	allowedOrigins := getAllowedOrigins(corsConfig)

	for _, allowedOrigin := range allowedOrigins {
		if origin == allowedOrigin {
			return true
		}
	}

	if !corsConfig.AllowSubdomains {
		return false
	}

	for _, domain := range corsConfig.AllowedDomains {
		if matchesDomain(origin, domain) {
			return true
		}
	}
	for _, allowedOrigin := range allowedOrigins {
		if domain, ok := strings.CutPrefix(allowedOrigin, "*."); ok && matchesDomain(origin, domain) {
			return true
		}
	}

	return false
}

// CORSMiddleware sets CORS headers from configuration and answers preflight requests
func CORSMiddleware(next http.Handler, appConfig *config.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		corsConfig := appConfig.CORSConfig
		header := w.Header()

		if origin := r.Header.Get("Origin"); origin != "" && isOriginAllowed(origin, corsConfig) {
			header.Set("Access-Control-Allow-Origin", origin)
			header.Add("Vary", "Origin")
		}

		if len(corsConfig.AllowedMethods) > 0 {
			header.Set("Access-Control-Allow-Methods", strings.Join(corsConfig.AllowedMethods, ", "))
		} else {
			header.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		}

		if len(corsConfig.AllowedHeaders) > 0 {
			header.Set("Access-Control-Allow-Headers", strings.Join(corsConfig.AllowedHeaders, ", "))
		} else {
			header.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		}

		if len(corsConfig.ExposedHeaders) > 0 {
			header.Set("Access-Control-Expose-Headers", strings.Join(corsConfig.ExposedHeaders, ", "))
		}
		if corsConfig.AllowCredentials {
			header.Set("Access-Control-Allow-Credentials", "true")
		}
		if corsConfig.MaxAge > 0 {
			header.Set("Access-Control-Max-Age", strconv.Itoa(corsConfig.MaxAge))
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
