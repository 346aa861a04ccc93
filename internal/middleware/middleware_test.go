package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

type stubVerifier map[string]service.Identity

func (s stubVerifier) Verify(token string) (service.Identity, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return service.Identity{}, errors.New("bad token")
}

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func do(e *echo.Echo, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	e := echo.New()
	auth := JWTAuth(stubVerifier{"good": {UserID: 7, Email: "a@b.c"}})
	e.GET("/me", func(c echo.Context) error {
		id, ok := UserID(c)
		require.True(t, ok)
		return c.JSON(http.StatusOK, echo.Map{"id": id, "email": c.Get(CtxEmail)})
	}, auth)

	rec := do(e, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_token")

	rec = do(e, http.MethodGet, "/me", map[string]string{"Authorization": "Basic Zm9v"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_token")

	rec = do(e, http.MethodGet, "/me", map[string]string{"Authorization": "bearer  good "})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":7,"email":"a@b.c"}`, rec.Body.String())
}

func TestBearerToken(t *testing.T) {
	tok, ok := bearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)
	_, ok = bearerToken("Bearer ")
	assert.False(t, ok)
	_, ok = bearerToken("abc")
	assert.False(t, ok)
}

func TestResponseCache(t *testing.T) {
	rdb := newRedis(t)
	cfg := config.CacheConfig{
		Enabled: true, Methods: map[string]bool{http.MethodGet: true},
		TTL: time.Minute, KeyStrategy: "route_query", Prefix: "cache:test", MaxBodyBytes: 1 << 20,
	}
	var calls int32
	e := echo.New()
	e.GET("/hotels/:id", func(c echo.Context) error {
		n := atomic.AddInt32(&calls, 1)
		if c.Param("id") == "404" {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found"})
		}
		return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id"), "call": n})
	}, ResponseCache(cfg, rdb, nil))

	first := do(e, http.MethodGet, "/hotels/1", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := do(e, http.MethodGet, "/hotels/1", nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Contains(t, second.Header().Get(echo.HeaderContentType), "application/json")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// different query, different entry
	do(e, http.MethodGet, "/hotels/1?x=1", nil)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	// errors are not cached
	do(e, http.MethodGet, "/hotels/404", nil)
	do(e, http.MethodGet, "/hotels/404", nil)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))

	// authenticated requests bypass the cache
	rec := do(e, http.MethodGet, "/hotels/1", map[string]string{"Authorization": "Bearer x"})
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
}

func TestResponseCacheDisabledWithoutRedis(t *testing.T) {
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
		ResponseCache(config.CacheConfig{Enabled: true}, nil, nil))
	rec := do(e, http.MethodGet, "/x", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestCachedPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodeCached(http.StatusOK, hdr, []byte(`{"a":1}`))
	require.NoError(t, err)
	status, got, body, ok := decodeCached(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodeCached([]byte{0, 1})
	assert.False(t, ok)
}

func TestRateLimit(t *testing.T) {
	rdb := newRedis(t)
	cfg := config.RateLimitConfig{
		Enabled: true, Capacity: 2, RefillTokens: 1, RefillInterval: time.Hour,
		TTL: 2 * time.Hour, KeyStrategy: "ip_route", Prefix: "rl:test",
	}
	e := echo.New()
	e.POST("/bookings", func(c echo.Context) error { return c.NoContent(http.StatusCreated) }, RateLimit(cfg, rdb, nil))

	assert.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/bookings", nil).Code)
	rec := do(e, http.MethodPost, "/bookings", nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = do(e, http.MethodPost, "/bookings", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "too_many_requests")

	// another client has its own bucket
	rec = do(e, http.MethodPost, "/bookings", map[string]string{"X-Real-Ip": "10.0.0.9"})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		RateLimit(config.RateLimitConfig{Enabled: true, Capacity: 1}, rdb, nil))
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/x", nil).Code)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	e.Use(RequestLogger(zap.New(core)))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	do(e, http.MethodGet, "/ok", nil)
	do(e, http.MethodGet, "/missing", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "request", entries[0].Message)
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
	assert.Equal(t, "/ok", entries[0].ContextMap()["path"])
	assert.Equal(t, "anon", entries[0].ContextMap()["user"])
	assert.Equal(t, int64(http.StatusNotFound), entries[1].ContextMap()["status"])
}

func TestPurgeCache(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()
	cfg := config.CacheConfig{Prefix: "cache:test"}
	for i := 0; i < 450; i++ {
		require.NoError(t, rdb.Set(ctx, fmt.Sprintf("cache:test:%03d", i), "x", time.Minute).Err())
	}
	require.NoError(t, rdb.Set(ctx, "rl:test:1", "keep", time.Minute).Err())

	n, err := PurgeCache(ctx, cfg, rdb)
	require.NoError(t, err)
	assert.Equal(t, 450, n)

	keys, err := rdb.Keys(ctx, "*").Result()
	require.NoError(t, err)
	assert.Equal(t, []string{"rl:test:1"}, keys)

	n, err = PurgeCache(ctx, cfg, nil)
	assert.NoError(t, err)
	assert.Zero(t, n)
}
