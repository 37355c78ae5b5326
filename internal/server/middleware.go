// HTTP middleware for recovery, rate limiting, logging, and headers.
//
// DESIGN: Middleware chain (applied in order):
//  1. panicRecovery:     Catch panics, return 500, log stack trace
//  2. rateLimit:         Per-IP token bucket rate limiting
//  3. loggingMiddleware: Log request/response with timing
//  4. security:          Security headers, CORS for local tooling
package server

import (
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/compresr/prompt-trim/internal/monitoring"
)

// MaxRateLimitBuckets caps rate limiter memory.
const MaxRateLimitBuckets = 10000

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code before writing it.
func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Flush delegates to the underlying ResponseWriter if it supports
// flushing, so streaming responses work through the wrapper.
func (w *responseWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// rateLimiter implements a token bucket rate limiter per IP address.
type rateLimiter struct {
	requests   map[string]*bucket
	mu         sync.Mutex
	rate       int
	maxBuckets int
}

// bucket holds rate limiting state for a single IP.
type bucket struct {
	tokens    int
	lastCheck time.Time
}

// newRateLimiter creates a rate limiter with the given per-second rate.
func newRateLimiter(rate int) *rateLimiter {
	rl := &rateLimiter{requests: make(map[string]*bucket), rate: rate, maxBuckets: MaxRateLimitBuckets}
	go rl.cleanup()
	return rl
}

// allow checks if the given IP is allowed to make a request.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, exists := rl.requests[ip]
	if !exists {
		if len(rl.requests) >= rl.maxBuckets {
			rl.evictOldest()
		}
		rl.requests[ip] = &bucket{tokens: rl.rate - 1, lastCheck: now}
		return true
	}

	elapsed := now.Sub(b.lastCheck).Seconds()
	b.tokens += int(elapsed * float64(rl.rate))
	if b.tokens > rl.rate {
		b.tokens = rl.rate
	}
	b.lastCheck = now

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

// evictOldest removes the oldest bucket (called with lock held).
func (rl *rateLimiter) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	first := true
	for k, b := range rl.requests {
		if first || b.lastCheck.Before(oldestTime) {
			oldestKey = k
			oldestTime = b.lastCheck
			first = false
		}
	}
	if oldestKey != "" {
		delete(rl.requests, oldestKey)
	}
}

// cleanup periodically removes stale buckets.
func (rl *rateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-10 * time.Minute)
		for ip, b := range rl.requests {
			if b.lastCheck.Before(cutoff) {
				delete(rl.requests, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// loggingMiddleware logs request details and duration.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(HeaderRequestID, requestID)

		ctx := monitoring.WithRequestIDContext(r.Context(), requestID)
		r = r.WithContext(ctx)

		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		latency := time.Since(start)
		s.metrics.RecordRequest(wrapped.status < 400, latency)

		log.Info().
			Str("id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapped.status).
			Dur("duration", latency).
			Msg("request")
	})
}

// panicRecovery middleware recovers from panics and returns a 500 error.
func (s *Server) panicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("panic", err).Str("stack", string(debug.Stack())).Msg("panic")
				s.writeError(w, "internal error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// rateLimit middleware enforces per-IP rate limiting.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !s.rateLimiter.allow(ip) {
			log.Warn().Str("ip", ip).Msg("rate limit exceeded")
			w.Header().Set("Retry-After", "1")
			s.writeError(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// security middleware adds security headers and handles CORS.
func (s *Server) security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")

		origin := r.Header.Get("Origin")
		if origin != "" && isAllowedOrigin(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+HeaderRequestID)
			w.Header().Set("Access-Control-Max-Age", "86400")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// isAllowedOrigin permits local development tooling only.
func isAllowedOrigin(origin string) bool {
	return strings.HasPrefix(origin, "http://localhost") || strings.HasPrefix(origin, "http://127.0.0.1")
}

// clientIP extracts the client IP address from the request. Trusts
// X-Forwarded-For and X-Real-IP only from localhost (reverse proxy).
func clientIP(r *http.Request) string {
	if remoteIP, _, _ := net.SplitHostPort(r.RemoteAddr); remoteIP == "127.0.0.1" || remoteIP == "::1" {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if idx := strings.Index(xff, ","); idx != -1 {
				return strings.TrimSpace(xff[:idx])
			}
			return strings.TrimSpace(xff)
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return xri
		}
	}
	ip, _, _ := net.SplitHostPort(r.RemoteAddr)
	return ip
}
