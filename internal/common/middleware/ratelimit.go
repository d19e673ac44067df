package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"telewall/internal/common/errors"
)

// maxTrackedKeys bounds the limiter map; it is reset when exceeded.
const maxTrackedKeys = 10000

// RateLimiter keeps one token bucket per Telegram user (or client IP).
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    time.Duration
	burst    int
	name     string
	logger   zerolog.Logger
}

// NewRateLimiter allows perMinute requests per key with a burst of the same size.
func NewRateLimiter(name string, perMinute int, logger zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		every:    time.Minute / time.Duration(perMinute),
		burst:    perMinute,
		name:     name,
		logger:   logger,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if len(rl.limiters) > maxTrackedKeys {
		rl.limiters = make(map[string]*rate.Limiter)
	}

	l, ok := rl.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Every(rl.every), rl.burst)
		rl.limiters[key] = l
	}
	return l
}

// Allow reports whether key may proceed now.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.limiter(key).Allow()
}

// Handler must run after InitData so the Telegram user is known.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if user, ok := TelegramUser(c); ok {
			key = strconv.FormatInt(user.ID, 10)
		}

		if !rl.Allow(key) {
			Abort(c, errors.NewRateLimitError(rl.name, rl.every), rl.logger)
			return
		}
		c.Next()
	}
}
