package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// idleEvictAfter bounds how long an inactive client keeps its bucket; the
// limiter map would otherwise grow by one entry per distinct IP forever.
const idleEvictAfter = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter hands out one token-bucket limiter per client IP.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	limit    rate.Limit
	burst    int
}

func newIPLimiter(limit float64, burst int) *ipLimiter {
	return &ipLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    rate.Limit(limit),
		burst:    burst,
	}
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.limiters[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = c
	}
	c.lastSeen = time.Now()
	return c.limiter
}

// evict drops buckets idle for longer than maxAge.
func (l *ipLimiter) evict(maxAge time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	for ip, c := range l.limiters {
		if c.lastSeen.Before(cutoff) {
			delete(l.limiters, ip)
		}
	}
}

func (l *ipLimiter) janitor(maxAge time.Duration) {
	ticker := time.NewTicker(maxAge)
	defer ticker.Stop()
	for range ticker.C {
		l.evict(maxAge)
	}
}

// RateLimit throttles requests per client IP. Used on the auth endpoints to
// slow down code guessing and signup spam.
func RateLimit(limit float64, burst int) gin.HandlerFunc {
	limiters := newIPLimiter(limit, burst)
	go limiters.janitor(idleEvictAfter)
	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
