package main

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type contextKey string

const requestIDKey contextKey = "request_id"

var cspPolicy = "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'; object-src 'none'; base-uri 'self'; frame-ancestors 'none';"

func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Security-Policy", cspPolicy)
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
		}
		c.Next()
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.Request.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		ctx := context.WithValue(c.Request.Context(), requestIDKey, reqID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-Id", reqID)
		c.Next()
	}
}

type rateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// rateLimiter keeps one token bucket per client IP.
type rateLimiter struct {
	mu      sync.RWMutex
	entries map[string]*rateLimiterEntry
	rps     int
	burst   int
	ttl     time.Duration
}

func newRateLimiter(rps, burst int, ttl time.Duration) *rateLimiter {
	return &rateLimiter{
		entries: make(map[string]*rateLimiterEntry),
		rps:     rps,
		burst:   burst,
		ttl:     ttl,
	}
}

func (rl *rateLimiter) get(key string) *rate.Limiter {
	rl.mu.RLock()
	entry, ok := rl.entries[key]
	rl.mu.RUnlock()
	if ok {
		rl.mu.Lock()
		if entry, ok = rl.entries[key]; ok {
			entry.lastAccess = time.Now()
		}
		rl.mu.Unlock()
		if ok {
			return entry.limiter
		}
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if entry, ok = rl.entries[key]; ok {
		entry.lastAccess = time.Now()
		return entry.limiter
	}

	rps := rl.rps
	if rps <= 0 {
		rps = 1
	}
	entry = &rateLimiterEntry{
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), rl.burst),
		lastAccess: time.Now(),
	}
	rl.entries[key] = entry
	return entry.limiter
}

func (rl *rateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, please slow down"})
			return
		}
		c.Next()
	}
}

func (rl *rateLimiter) len() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.entries)
}

func (rl *rateLimiter) cleanupStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rl.ttl)
	removed := 0
	for key, entry := range rl.entries {
		if entry.lastAccess.Before(cutoff) {
			delete(rl.entries, key)
			removed++
		}
	}

	if len(rl.entries) > 50000 {
		log.Info().Int("entries", len(rl.entries)).Msg("rate limiter map too large, performing emergency cleanup")

		type limiterInfo struct {
			key        string
			lastAccess time.Time
		}
		var limiters []limiterInfo
		for key, entry := range rl.entries {
			limiters = append(limiters, limiterInfo{key: key, lastAccess: entry.lastAccess})
		}
		sort.Slice(limiters, func(i, j int) bool {
			return limiters[i].lastAccess.Before(limiters[j].lastAccess)
		})
		for i := 0; i < len(limiters)/2; i++ {
			delete(rl.entries, limiters[i].key)
			removed++
		}
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Msg("cleaned up stale rate limiters")
	}
}

func (rl *rateLimiter) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for range ticker.C {
			rl.cleanupStale()
		}
	}()
	log.Info().Dur("interval", interval).Msg("started rate limiter cleanup goroutine")
}
