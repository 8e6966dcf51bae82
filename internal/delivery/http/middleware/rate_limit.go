package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"catalog-service/config"
	"catalog-service/pkg/utils"

	"golang.org/x/time/rate"
)

const (
	limiterCleanupPeriod = time.Minute
	limiterClientTTL     = 3 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client IP. Idle clients are evicted
// by a background loop that stops with Shutdown.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

// NewRateLimiter builds a limiter from RATE_LIMIT_RPS and RATE_LIMIT_BURST.
func NewRateLimiter(ctx context.Context, cfg *config.Config) *RateLimiter {
	return newRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, limiterCleanupPeriod, limiterClientTTL)
}

func newRateLimiter(ctx context.Context, limit rate.Limit, burst int, cleanupPeriod, ttl time.Duration) *RateLimiter {
	ctx, cancel := context.WithCancel(ctx)
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go rl.cleanupLoop(ctx, cleanupPeriod)
	return rl
}

func (rl *RateLimiter) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := rl.visitor(clientIP(r))
			if !limiter.Allow() {
				w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfter()))
				utils.WriteError(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) visitor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

// retryAfter is the whole seconds until one token is available again.
func (rl *RateLimiter) retryAfter() int {
	if rl.limit <= 0 {
		return 1
	}
	secs := int(1 / float64(rl.limit))
	if secs < 1 {
		return 1
	}
	return secs
}

func (rl *RateLimiter) cleanupLoop(ctx context.Context, period time.Duration) {
	defer close(rl.done)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle()
		case <-ctx.Done():
			return
		}
	}
}

func (rl *RateLimiter) evictIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.ttl)
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
}

// Shutdown stops the cleanup goroutine and waits for it to exit.
func (rl *RateLimiter) Shutdown() {
	rl.cancel()
	<-rl.done
}
