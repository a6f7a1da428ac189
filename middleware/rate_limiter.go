package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"cropguard-http-service/internal/error/code"
	"cropguard-http-service/internal/error/response"
)

// 简单的令牌桶限流器
type TokenBucket struct {
	rate       float64    // 每秒填充的令牌数
	capacity   int        // 桶的容量
	tokens     float64    // 当前令牌数
	lastRefill time.Time  // 上次填充时间
	mu         sync.Mutex // 互斥锁
}

// NewTokenBucket 创建新的令牌桶限流器
func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	return &TokenBucket{
		rate:       rate,
		capacity:   capacity,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// Allow 尝试获取令牌
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.lastRefill = now

	// 填充令牌
	tb.tokens += elapsed * tb.rate
	if tb.tokens > float64(tb.capacity) {
		tb.tokens = float64(tb.capacity)
	}

	// 尝试获取令牌
	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}

	return false
}

// 限流器映射
var (
	ipLimiters   = make(map[string]*TokenBucket)
	ipLimitersMu sync.RWMutex
)

// RateLimiterConfig 限流器配置
type RateLimiterConfig struct {
	Rate       float64                   // 每秒允许的请求数
	Burst      int                       // 允许的突发请求数
	ExpiryTime time.Duration             // 限流器过期时间
	KeyFunc    func(*gin.Context) string // 自定义键生成函数
}

// DefaultRateLimiterConfig 默认限流器配置
var DefaultRateLimiterConfig = RateLimiterConfig{
	Rate:       1,             // 每秒1个请求
	Burst:      5,             // 允许5个突发请求
	ExpiryTime: 1 * time.Hour, // 1小时后过期
}

// 获取键对应的限流器
func getLimiter(key string, cfg RateLimiterConfig) *TokenBucket {
	ipLimitersMu.RLock()
	limiter, exists := ipLimiters[key]
	ipLimitersMu.RUnlock()

	if !exists {
		limiter = NewTokenBucket(cfg.Rate, cfg.Burst)
		ipLimitersMu.Lock()
		ipLimiters[key] = limiter
		ipLimitersMu.Unlock()

		// 设置过期时间
		if cfg.ExpiryTime > 0 {
			go func() {
				time.Sleep(cfg.ExpiryTime)
				ipLimitersMu.Lock()
				delete(ipLimiters, key)
				ipLimitersMu.Unlock()
			}()
		}
	}

	return limiter
}

// RateLimiter 创建限流中间件，默认按客户端IP限流
func RateLimiter(config ...RateLimiterConfig) gin.HandlerFunc {
	// 使用默认配置或自定义配置
	var cfg RateLimiterConfig
	if len(config) > 0 {
		cfg = config[0]
	} else {
		cfg = DefaultRateLimiterConfig
	}

	// 确保配置有效
	if cfg.Rate <= 0 {
		cfg.Rate = DefaultRateLimiterConfig.Rate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultRateLimiterConfig.Burst
	}

	return func(c *gin.Context) {
		key := c.ClientIP()
		if cfg.KeyFunc != nil {
			key = cfg.KeyFunc(c)
		}

		limiter := getLimiter(key, cfg)
		if !limiter.Allow() {
			response.FailWithMessage(c, code.ErrTooManyRequests, "请求频率过高，请稍后再试", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// IPRateLimiter 按IP限流
func IPRateLimiter(rate float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{
		Rate:  rate,
		Burst: burst,
	})
}

// CombinedRateLimiter 按IP和路径组合限流
func CombinedRateLimiter(rate float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{
		Rate:  rate,
		Burst: burst,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP() + ":" + c.Request.URL.Path
		},
	})
}
