package main

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Nexora-Open-Source/rss-feed-tools/middleware"
	"github.com/Nexora-Open-Source/rss-feed-tools/monitoring"
	"golang.org/x/time/rate"
)

// clientIdleTTL is how long a client's bucket survives without requests
const clientIdleTTL = 5 * time.Minute

var errRateLimited = errors.New("rate limit exceeded")

// RateLimiter keeps one token bucket per client
type RateLimiter struct {
	clients map[string]*ClientLimiter
	mutex   sync.RWMutex
	rate    rate.Limit
	burst   int
}

// ClientLimiter represents a rate limiter for a specific client
type ClientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*ClientLimiter),
		rate:    r,
		burst:   b,
	}
}

// Allow reports whether clientID may make a request now
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	client, exists := rl.clients[clientID]
	if !exists {
		client = &ClientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[clientID] = client
	}
	client.lastSeen = time.Now()
	return client.limiter.Allow()
}

// Cleanup removes stale client entries
func (rl *RateLimiter) Cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	for clientID, client := range rl.clients {
		if time.Since(client.lastSeen) > clientIdleTTL {
			delete(rl.clients, clientID)
		}
	}
	monitoring.UpdateTrackedClients(len(rl.clients))
}

// Run calls Cleanup every interval until ctx is done
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Cleanup()
		}
	}
}

// getClientIdentifier hashes the forwarded IP, user agent family, language and
// session cookie into a 16 character client ID
func getClientIdentifier(r *http.Request) string {
	var identifiers []string

	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ip = strings.TrimSpace(strings.Split(forwarded, ",")[0])
	} else if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		ip = realIP
	}
	identifiers = append(identifiers, "ip:"+ip)

	if fields := strings.Fields(strings.ToLower(r.UserAgent())); len(fields) > 0 {
		identifiers = append(identifiers, "ua:"+fields[0])
	}

	if acceptLang := strings.TrimSpace(r.Header.Get("Accept-Language")); len(acceptLang) >= 2 {
		identifiers = append(identifiers, "lang:"+strings.ToLower(acceptLang[:2]))
	}

	if cookie, err := r.Cookie("session_id"); err == nil && cookie.Value != "" {
		hash := sha256.Sum256([]byte(cookie.Value))
		identifiers = append(identifiers, "sess:"+fmt.Sprintf("%x", hash)[:8])
	}

	finalHash := sha256.Sum256([]byte(strings.Join(identifiers, "|")))
	return fmt.Sprintf("%x", finalHash)[:16]
}

// RateLimitMiddleware rejects clients that exhausted their bucket with 429
func RateLimitMiddleware(limiter *RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(getClientIdentifier(r)) {
			monitoring.RecordRateLimited()
			middleware.RespondRateLimited(w, errRateLimited, middleware.RequestID(w, r))
			return
		}

		next.ServeHTTP(w, r)
	}
}
