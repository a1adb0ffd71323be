package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"go-user-api/internal/transport/http/response"
)

// Counter tracks requests per key inside a fixed window. The count
// resets when the window expires.
type Counter interface {
	// Incr bumps the key's counter, starting the window on first hit,
	// and returns the new count plus the time left in the window.
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// incrExpireScript keeps INCR and the window expiry atomic.
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

type redisCounter struct{ rdb *redis.Client }

func (c *redisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	n, err := incrExpireScript.Run(ctx, c.rdb, []string{key}, window.Milliseconds()).Int64()
	if err != nil {
		return 0, 0, err
	}
	ttl, _ := c.rdb.TTL(ctx, key).Result()
	if ttl < 0 {
		ttl = window
	}
	return n, ttl, nil
}

type windowEntry struct {
	count int64
	reset time.Time
}

// sweepEvery bounds how often expired windows are evicted; keys for
// idle IPs would otherwise accumulate for the process lifetime.
const sweepEvery = 256

type memoryCounter struct {
	mu  sync.Mutex
	m   map[string]*windowEntry
	now func() time.Time
	ops int
}

func (c *memoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()

	if c.ops++; c.ops >= sweepEvery {
		c.ops = 0
		for k, e := range c.m {
			if !now.Before(e.reset) {
				delete(c.m, k)
			}
		}
	}

	e, ok := c.m[key]
	if !ok || !now.Before(e.reset) {
		e = &windowEntry{reset: now.Add(window)}
		c.m[key] = e
	}
	e.count++
	return e.count, e.reset.Sub(now), nil
}

// NewCounter returns redis-backed counters when a client is configured,
// so the window survives restarts and is shared between replicas, and
// falls back to in-process counters otherwise. now is the clock used by
// the in-process window; pass nil for time.Now.
func NewCounter(rdb *redis.Client, now func() time.Time) Counter {
	if rdb != nil {
		return &redisCounter{rdb: rdb}
	}
	if now == nil {
		now = time.Now
	}
	return &memoryCounter{m: make(map[string]*windowEntry), now: now}
}

// RateLimitPerIP rejects a client IP with 429 once it exceeds max
// requests within the fixed window. Counter errors fail open.
func RateLimitPerIP(counter Counter, max int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		count, ttl, err := counter.Incr(c.Request.Context(), "rl:ip:"+ip, window)
		if err != nil {
			c.Next()
			return
		}
		remaining := max - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.FormatInt(max, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.Itoa(int(ttl.Seconds())))
		if count > max {
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorBody{
				Error: "Too many requests, please try again later.",
			})
			return
		}
		c.Next()
	}
}

// RateLimit is a process-wide token bucket in front of the per-IP
// window, protecting the server as a whole from bursts.
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorBody{
			Error: "Too many requests, please try again later.",
		})
	}
}
