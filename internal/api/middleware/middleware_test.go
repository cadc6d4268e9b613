package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"

	"github.com/hottakes/hottakes-api/internal/apperr"
	"github.com/hottakes/hottakes-api/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler(), Recovery())
	r.Use(mw...)
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body, "error")
	return body["error"]
}

func TestErrorHandler_RendersTaxonomyErrors(t *testing.T) {
	r := newEngine()
	r.GET("/missing", func(c *gin.Context) {
		_ = c.Error(apperr.NotFound("sauce"))
	})
	r.GET("/unknown", func(c *gin.Context) {
		_ = c.Error(errors.New("connection reset by peer"))
	})
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := do(r, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	e := decodeError(t, w)
	assert.Equal(t, "NotFoundError", e["name"])
	assert.Equal(t, "not_found", e["type"])
	assert.NotContains(t, e, "status")

	w = do(r, httptest.NewRequest(http.MethodGet, "/unknown", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	e = decodeError(t, w)
	assert.Equal(t, "Internal Server Error", e["message"])
	assert.NotContains(t, w.Body.String(), "connection reset")

	w = do(r, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestRecovery_RendersGeneric500(t *testing.T) {
	r := newEngine()
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := do(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	e := decodeError(t, w)
	assert.Equal(t, "internal", e["type"])
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestRequestID(t *testing.T) {
	r := newEngine()
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	w := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(requestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = do(r, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestAuthMiddleware(t *testing.T) {
	a := auth.NewAuthenticator("0123456789abcdef0123456789abcdef", time.Hour)
	r := newEngine(AuthMiddleware(a))
	r.GET("/me", func(c *gin.Context) { c.String(http.StatusOK, UserID(c)) })

	w := do(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "authentication_missing", decodeError(t, w)["type"])

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w = do(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "authentication_invalid", decodeError(t, w)["type"])

	token, _, err := a.Issue("65f1c0ffee0000000000abcd")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "65f1c0ffee0000000000abcd", w.Body.String())
}

func exerciseLimiter(t *testing.T, store limiter.Store) {
	t.Helper()
	r := newEngine(RateLimitMiddleware(store, 2))
	r.GET("/sauces", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := do(r, httptest.NewRequest(http.MethodGet, "/sauces", nil))
		require.Equal(t, http.StatusOK, w.Code, "request %d", i)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := do(r, httptest.NewRequest(http.MethodGet, "/sauces", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "too_many_requests", decodeError(t, w)["type"])
}

func TestRateLimit_MemoryStore(t *testing.T) {
	store, err := NewLimiterStore("")
	require.NoError(t, err)
	exerciseLimiter(t, store)
}

func TestRateLimit_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewLimiterStore("redis://" + mr.Addr())
	require.NoError(t, err)
	exerciseLimiter(t, store)

	keys := mr.Keys()
	require.NotEmpty(t, keys)
	assert.Contains(t, keys[0], limiterPrefix)
}

func TestNewLimiterStore_BadURL(t *testing.T) {
	_, err := NewLimiterStore("not a url://")
	assert.Error(t, err)
}

func TestCORSMiddleware(t *testing.T) {
	r := newEngine(CORSMiddleware([]string{"https://front.example"}))
	r.GET("/sauces", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/sauces", nil)
	req.Header.Set("Origin", "https://front.example")
	w := do(r, req)
	assert.Equal(t, "https://front.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/sauces", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = do(r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	open := newEngine(CORSMiddleware(nil))
	open.GET("/sauces", func(c *gin.Context) { c.Status(http.StatusOK) })
	req = httptest.NewRequest(http.MethodGet, "/sauces", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	w = do(open, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
