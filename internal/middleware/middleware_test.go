package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-reservation/internal/config"
	"github.com/iliyamo/hotel-room-reservation/internal/utils"
)

const secret = "test-secret"

func protected(roles ...string) *echo.Echo {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"id": UserID(c), "role": Role(c)})
	}, JWTAuth(secret), RequireRole(roles...))
	return e
}

func call(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func token(t *testing.T, sub, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, sub, role, 5)
	require.NoError(t, err)
	return tok.Token
}

func TestJWTAuth(t *testing.T) {
	e := protected("user", "admin")

	rec := call(e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"status":"ERR","data":"missing bearer token"}`, rec.Body.String())

	rec = call(e, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(e, token(t, "abc", "user"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"abc","role":"user"}`, rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	e := protected("admin")

	assert.Equal(t, http.StatusForbidden, call(e, token(t, "abc", "user")).Code)
	assert.Equal(t, http.StatusOK, call(e, token(t, "abc", "admin")).Code)
}

func TestCacheKeyUsesRequestPath(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache:rooms", KeyStrategy: "path_query"}
	e := echo.New()
	key := func(target string) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		c.SetPath("/rooms/one/:rid")
		return cacheKeyFrom(cfg, c)
	}

	a, b := key("/rooms/one/a"), key("/rooms/one/b")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, key("/rooms/one/a"))
	assert.NotEqual(t, a, key("/rooms/one/a?x=1"))
	assert.Contains(t, a, "cache:rooms:")
}

func TestPayloadEncoding(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"status":"OK"}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, got)
	assert.Equal(t, `{"status":"OK"}`, string(body))

	_, _, _, ok = decodePayload(bs[:5])
	assert.False(t, ok)
}

func TestDisabledMiddlewarePassThrough(t *testing.T) {
	e := echo.New()
	e.GET("/rooms", func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
		NewRedisCache(config.CacheConfig{Enabled: true}, nil),
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))

	assert.NoError(t, NewRoomCache(config.CacheConfig{Enabled: true}, nil).Purge(context.Background()))
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/rooms/reserved/x", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/rooms/reserved/:rid")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}
	assert.Equal(t, "rl:ip:10.0.0.1:user:anon:route:PUT /rooms/reserved/:rid", buildRateKey(cfg, c))

	c.Set(CtxUserID, "u1")
	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:u1", buildRateKey(cfg, c))
}
