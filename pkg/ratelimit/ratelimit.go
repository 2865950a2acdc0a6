package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/tair/alcohol-tracker/pkg/logger"
)

// Result of a single limit check
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter decides whether a caller identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
	Limit() int
}

// RedisLimiter implements a sliding window shared by every instance
type RedisLimiter struct {
	redis       *redis.Client
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

func NewRedisLimiter(client *redis.Client, maxRequests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		redis:       client,
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

func (rl *RedisLimiter) Limit() int { return rl.maxRequests }

// Allow records the request and reports whether it fits in the window
func (rl *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)
	now := rl.now()
	windowStart := now.Add(-rl.window)

	pipe := rl.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	pipe.Expire(ctx, redisKey, rl.window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}

	count := int(countCmd.Val())
	remaining := rl.maxRequests - count - 1
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count < rl.maxRequests,
		Remaining: remaining,
		ResetAt:   now.Add(rl.window),
	}, nil
}

// MemoryLimiter is a per-process fixed window used when Redis is unavailable
type MemoryLimiter struct {
	mu          sync.Mutex
	counters    *gocache.Cache
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

type windowCounter struct {
	count   int
	resetAt time.Time
}

func NewMemoryLimiter(maxRequests int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		counters:    gocache.New(window, 2*window),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

func (ml *MemoryLimiter) Limit() int { return ml.maxRequests }

func (ml *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := ml.now()
	wc := &windowCounter{resetAt: now.Add(ml.window)}
	if v, ok := ml.counters.Get(key); ok {
		if existing := v.(*windowCounter); now.Before(existing.resetAt) {
			wc = existing
		}
	}
	wc.count++
	ml.counters.Set(key, wc, wc.resetAt.Sub(now))

	remaining := ml.maxRequests - wc.count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   wc.count <= ml.maxRequests,
		Remaining: remaining,
		ResetAt:   wc.resetAt,
	}, nil
}

// Middleware rejects callers over the limit with 429. Limiter errors let the
// request through.
func Middleware(limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identifier := clientIP(r)

			res, err := limiter.Allow(r.Context(), identifier)
			if err != nil {
				logger.Logger.Error().
					Err(err).
					Str("identifier", identifier).
					Msg("Rate limiter error")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed {
				logger.Logger.Warn().
					Str("identifier", identifier).
					Int("limit", limiter.Limit()).
					Msg("Rate limit exceeded")

				retryAfter := time.Until(res.ResetAt).Round(time.Second)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"success": false,
					"error":   "Rate limit exceeded",
					"message": fmt.Sprintf("Too many requests. Try again in %v", retryAfter),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
