package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateLimiter_Window(t *testing.T) {
	l := NewMemoryRateLimiter()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "api:10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i+1)
	}

	ok, _ := l.Allow(ctx, "api:10.0.0.1", 3, time.Minute)
	assert.False(t, ok, "fourth request in window")

	ok, _ = l.Allow(ctx, "api:10.0.0.2", 3, time.Minute)
	assert.True(t, ok, "other keys have their own counter")

	now = now.Add(time.Minute)
	ok, _ = l.Allow(ctx, "api:10.0.0.1", 3, time.Minute)
	assert.True(t, ok, "new window resets the count")
}

func TestMemoryRateLimiter_Prunes(t *testing.T) {
	l := NewMemoryRateLimiter()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = l.Allow(ctx, "a", 1, time.Minute)
	_, _ = l.Allow(ctx, "b", 1, time.Minute)
	require.Len(t, l.buckets, 2)

	now = now.Add(2 * time.Minute)
	_, _ = l.Allow(ctx, "c", 1, time.Minute)
	assert.Len(t, l.buckets, 1)
}

func newRedisLimiter(t *testing.T) (*RedisRateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRateLimiter(client), mr
}

func TestRedisRateLimiter(t *testing.T) {
	l, mr := newRedisLimiter(t)
	now := time.Date(2024, 3, 1, 12, 0, 30, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "upload:10.0.0.1", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, "upload:10.0.0.1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], "daman:ratelimit:upload:10.0.0.1:")
	assert.Equal(t, time.Minute, mr.TTL(keys[0]))

	now = now.Add(time.Minute)
	ok, err = l.Allow(ctx, "upload:10.0.0.1", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "next window uses a fresh key")
}

func TestRedisRateLimiter_Unavailable(t *testing.T) {
	l, mr := newRedisLimiter(t)
	mr.Close()

	ok, err := l.Allow(context.Background(), "api:10.0.0.1", 1, time.Minute)
	assert.Error(t, err)
	assert.True(t, ok)
}

func TestDialRedisRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)

	l, err := DialRedisRateLimiter(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	require.NoError(t, l.Close())

	_, err = DialRedisRateLimiter(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := testConfig()
	cfg.Rate.Enabled = true
	cfg.Rate.RequestsPerMinute = 2
	env := newTestEnv(t, cfg)

	for i := 0; i < 2; i++ {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := env.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, "RATE001", decodeBody[ErrorResponse](t, rec).Code)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "198.51.100.7:4000"
	assert.Equal(t, http.StatusOK, env.do(req).Code, "limits are per client")
}

func TestRateLimitMiddleware_FailsOpen(t *testing.T) {
	l, mr := newRedisLimiter(t)
	mr.Close()

	cfg := testConfig()
	cfg.Rate.Enabled = true
	cfg.Rate.RequestsPerMinute = 1
	env := newTestEnv(t, cfg)
	env.server.limiter = l

	handler := env.server.rateLimit("api", 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}
}
