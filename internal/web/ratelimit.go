package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/JonMunkholm/daman/internal/logging"
	webmw "github.com/JonMunkholm/daman/internal/web/middleware"
)

// rateWindow is the fixed window every limit is counted over.
const rateWindow = time.Minute

// RateLimiter counts requests per key in fixed windows.
type RateLimiter interface {
	// Allow records one request for key and reports whether it is within
	// limit for the current window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// MemoryRateLimiter keeps counters in process memory. Stale windows are
// pruned lazily on access.
type MemoryRateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*rateBucket
	lastPrune time.Time
	now       func() time.Time
}

type rateBucket struct {
	count       int
	windowStart time.Time
	window      time.Duration
}

// NewMemoryRateLimiter creates an empty in-process limiter.
func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{
		buckets: make(map[string]*rateBucket),
		now:     time.Now,
	}
}

func (l *MemoryRateLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPrune) > window {
		for k, b := range l.buckets {
			if now.Sub(b.windowStart) >= b.window {
				delete(l.buckets, k)
			}
		}
		l.lastPrune = now
	}

	b, ok := l.buckets[key]
	if !ok || now.Sub(b.windowStart) >= window {
		b = &rateBucket{windowStart: now, window: window}
		l.buckets[key] = b
	}

	b.count++
	return b.count <= limit, nil
}

// RedisRateLimiter shares counters between instances with INCR and EXPIRE
// on one key per window.
type RedisRateLimiter struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisRateLimiter wraps an existing client.
func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		prefix: "daman:ratelimit:",
		now:    time.Now,
	}
}

// DialRedisRateLimiter connects to redisURL and checks the connection.
func DialRedisRateLimiter(ctx context.Context, redisURL string) (*RedisRateLimiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisRateLimiter(client), nil
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	bucket := l.now().UnixNano() / int64(window)
	redisKey := l.prefix + key + ":" + strconv.FormatInt(bucket, 10)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("rate limit counter %s: %w", redisKey, err)
	}

	return incr.Val() <= int64(limit), nil
}

// Close releases the Redis connection pool.
func (l *RedisRateLimiter) Close() error {
	return l.client.Close()
}

// rateLimit limits requests per client IP within scope. Limiter errors
// let the request through.
func (s *Server) rateLimit(scope string, limit int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := scope + ":" + webmw.ClientIP(r)

			allowed, err := s.limiter.Allow(r.Context(), key, limit, rateWindow)
			if err != nil {
				logging.FromContext(r.Context()).Warn("rate limiter unavailable, allowing request",
					"scope", scope,
					"error", err,
				)
			} else if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(rateWindow.Seconds())))
				s.respondError(w, r, errRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
