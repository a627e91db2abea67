package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"tiendaropa/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ── Fixed-window limiter ──────────────────────────────────────────────────────
// Counters live in Redis when a client is given so every API replica shares
// them; otherwise (or when Redis fails) an in-process map is used.

type windowEntry struct {
	count     int
	windowEnd time.Time
}

type windowLimiter struct {
	name   string
	limit  int
	window time.Duration
	rdb    *redis.Client

	mu        sync.Mutex
	entries   map[string]*windowEntry
	lastPurge time.Time
}

func newWindowLimiter(name string, limit int, window time.Duration, rdb *redis.Client) *windowLimiter {
	return &windowLimiter{
		name:    name,
		limit:   limit,
		window:  window,
		rdb:     rdb,
		entries: make(map[string]*windowEntry),
	}
}

// allow registers one hit for key and reports whether it is within the limit
// together with the seconds until the window resets.
func (l *windowLimiter) allow(ctx context.Context, key string) (bool, int) {
	if l.rdb != nil {
		ok, retry, err := l.allowRedis(ctx, key)
		if err == nil {
			return ok, retry
		}
		log.Warn().Err(err).Str("limiter", l.name).Msg("rate limiter: redis unavailable, using memory")
	}
	return l.allowMemory(key)
}

func (l *windowLimiter) allowRedis(ctx context.Context, key string) (bool, int, error) {
	redisKey := fmt.Sprintf("ratelimit:%s:%s", l.name, key)
	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, l.window)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}
	retry := int(ttl.Val().Seconds())
	if retry < 1 {
		retry = 1
	}
	return incr.Val() <= int64(l.limit), retry, nil
}

func (l *windowLimiter) allowMemory(key string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastPurge) > 5*time.Minute {
		for k, e := range l.entries {
			if now.After(e.windowEnd) {
				delete(l.entries, k)
			}
		}
		l.lastPurge = now
	}

	e, ok := l.entries[key]
	if !ok || now.After(e.windowEnd) {
		e = &windowEntry{windowEnd: now.Add(l.window)}
		l.entries[key] = e
	}
	e.count++
	retry := int(time.Until(e.windowEnd).Seconds()) + 1
	return e.count <= l.limit, retry
}

func (l *windowLimiter) middleware(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retry := l.allow(c.Request.Context(), c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(message))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter(rdb *redis.Client) gin.HandlerFunc {
	return newWindowLimiter("login", 20, time.Minute, rdb).
		middleware("Demasiados intentos de login. Intente en 1 minuto.")
}

// RateLimiter limits every request to limit per window per IP.
func RateLimiter(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return newWindowLimiter("api", limit, window, rdb).
		middleware("Demasiadas solicitudes. Intente nuevamente en un momento.")
}
