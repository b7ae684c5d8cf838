package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/restaurant-catalog/internal/config"
)

func newContext(e *echo.Echo, method, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// unreachableRedis returns a client whose every command fails fast.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestCacheKeyDependsOnStrategy(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "catalog:cache", KeyStrategy: "route_query"}

	c1, _ := newContext(e, http.MethodGet, "/api/restaurants/1?x=1")
	c1.SetPath("/api/restaurants/:id")
	c1.SetParamNames("id")
	c1.SetParamValues("1")
	c2, _ := newContext(e, http.MethodGet, "/api/restaurants/2?x=1")
	c2.SetPath("/api/restaurants/:id")
	c2.SetParamNames("id")
	c2.SetParamValues("2")

	k1, k2 := cacheKeyFrom(cfg, c1), cacheKeyFrom(cfg, c2)
	assert.NotEqual(t, k1, k2, "path params are part of the key")
	assert.Regexp(t, `^catalog:cache:[0-9a-f]{40}$`, k1)
	assert.Equal(t, k1, cacheKeyFrom(cfg, c1))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"items":[]}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, got)
	assert.Equal(t, `{"items":[]}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}

func TestCaptureWriterHonoursLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	_, _ = cw.Write([]byte("def"))

	assert.Equal(t, "abcd", cw.buf.String())
	assert.True(t, cw.truncated())
	assert.Equal(t, "abcdef", rec.Body.String())
}

func TestMiddlewaresPassThroughWithoutRedis(t *testing.T) {
	e := echo.New()
	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }

	cache := NewRedisCache(config.CacheConfig{Enabled: true}, nil, zap.NewNop())
	limiter := NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil, zap.NewNop())

	c, rec := newContext(e, http.MethodGet, "/")
	require.NoError(t, cache(limiter(ok))(c))
	assert.Equal(t, "ok", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestMiddlewaresFailOpenWhenRedisIsDown(t *testing.T) {
	e := echo.New()
	rdb := unreachableRedis(t)
	ok := func(c echo.Context) error { return c.JSON(http.StatusOK, echo.Map{"ok": true}) }

	cache := NewRedisCache(config.LoadCacheConfig(), rdb, zap.NewNop())
	limiter := NewTokenBucket(config.LoadRateLimitConfig(), rdb, zap.NewNop())

	c, rec := newContext(e, http.MethodGet, "/api/restaurants")
	require.NoError(t, cache(limiter(ok))(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Empty(t, rec.Header().Get("X-RateLimit-Remaining"))

	err := NewCacheInvalidator(config.LoadCacheConfig(), rdb).Invalidate(context.Background())
	assert.Error(t, err)
}

func TestNilInvalidatorIsNoop(t *testing.T) {
	var ci *CacheInvalidator
	assert.NoError(t, ci.Invalidate(context.Background()))
	assert.NoError(t, NewCacheInvalidator(config.CacheConfig{}, nil).Invalidate(context.Background()))
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	c, _ := newContext(e, http.MethodPost, "/api/imports")
	c.SetPath("/api/imports")
	c.Request().Header.Set(echo.HeaderXRealIP, "10.0.0.7")

	assert.Equal(t, "rl:ip:10.0.0.7:route:POST /api/imports",
		buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}, c))
	assert.Equal(t, "rl:ip:10.0.0.7",
		buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
	assert.Equal(t, 2, retryAfterSeconds(1500))
	assert.Equal(t, 0, retryAfterSeconds(-10))
}

func TestRequestLoggerAndErrorHandler(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(logger)
	e.Use(RequestLogger(logger))
	e.GET("/boom", func(c echo.Context) error { return errors.New("db exploded") })
	e.GET("/missing", func(c echo.Context) error { return echo.NewHTTPError(http.StatusNotFound, "restaurant not found") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
	assert.Equal(t, "req-1", rec.Header().Get(echo.HeaderXRequestID))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"restaurant not found"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	assert.Equal(t, 1, logs.FilterMessage("api is returning an error").Len())
	access := logs.FilterMessage("request").All()
	require.Len(t, access, 2)
	assert.Equal(t, int64(500), access[0].ContextMap()["status"])
	assert.Equal(t, "/boom", access[0].ContextMap()["route"])
}
