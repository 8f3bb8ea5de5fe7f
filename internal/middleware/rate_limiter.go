package middleware

import (
	"net/http"
	"sync"
	"time"

	"homecare-rental/pkg/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	visitorIdle     = 3 * time.Minute
	cleanupInterval = time.Minute
)

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	ips map[string]*visitor
	mu  sync.Mutex
	r   rate.Limit
	b   int
	now func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*visitor),
		r:   r,
		b:   b,
		now: time.Now,
	}
}

func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	v, exists := i.ips[ip]
	if !exists {
		limiter := rate.NewLimiter(i.r, i.b)
		i.ips[ip] = &visitor{limiter, i.now()}
		return limiter
	}

	v.lastSeen = i.now()
	return v.limiter
}

// Sweep drops visitors idle for longer than three minutes.
func (i *IPRateLimiter) Sweep() {
	i.mu.Lock()
	defer i.mu.Unlock()
	for ip, v := range i.ips {
		if i.now().Sub(v.lastSeen) > visitorIdle {
			delete(i.ips, ip)
		}
	}
}

func (i *IPRateLimiter) cleanupVisitors() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for range ticker.C {
		i.Sweep()
	}
}

// RateLimitMiddleware allows each IP 5 requests per second with bursts of 10.
func RateLimitMiddleware() gin.HandlerFunc {
	limiter := NewIPRateLimiter(5, 10)
	go limiter.cleanupVisitors()
	return limitWith(limiter)
}

func limitWith(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			utils.AbortResponse(c, http.StatusTooManyRequests, "too many requests")
			return
		}
		c.Next()
	}
}
