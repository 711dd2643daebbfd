package middleware

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/wyfcoding/tradingterminal/pkg/config"
	"github.com/wyfcoding/tradingterminal/pkg/logger"
)

// ipLimiters 按客户端 IP 维护独立的令牌桶。
type ipLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	qps      rate.Limit
	burst    int
}

func newIPLimiters(qps, burst int) *ipLimiters {
	return &ipLimiters{
		limiters: make(map[string]*rate.Limiter),
		qps:      rate.Limit(qps),
		burst:    burst,
	}
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.qps, l.burst)
		l.limiters[ip] = lim
	}
	return lim
}

// RateLimitMiddleware 基于令牌桶的 HTTP 限流中间件
// 以客户端 IP 为限流键，超限返回 429。
func RateLimitMiddleware(cfg config.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	limiters := newIPLimiters(cfg.QPS, cfg.Burst)

	return func(c *gin.Context) {
		lim := limiters.get(c.ClientIP())
		if !lim.Allow() {
			logger.Warn(c.Request.Context(), "rate limit exceeded",
				"client_ip", c.ClientIP(),
				"path", c.Request.URL.Path,
			)
			c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.QPS))
			c.Header("X-RateLimit-Burst", strconv.Itoa(cfg.Burst))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			return
		}
		c.Next()
	}
}
