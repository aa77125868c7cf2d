package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"user-directory-api/internal/adapter/ratelimit"
	"user-directory-api/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, logger.GetRequestID(c.Request.Context()))
	})

	t.Run("echoes caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(logger.RequestIDHeader, "abc-123")

		w := serve(r, req)

		assert.Equal(t, "abc-123", w.Header().Get(logger.RequestIDHeader))
		assert.Equal(t, "abc-123", w.Body.String())
	})

	t.Run("generates id", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))

		id := w.Header().Get(logger.RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zaptest.NewLogger(t)))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Internal Server Error"}`, w.Body.String())
}

func TestLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	req := httptest.NewRequest(http.MethodGet, "/ok?x=1", nil)
	req.Header.Set(logger.RequestIDHeader, "rid-1")
	serve(r, req)
	serve(r, httptest.NewRequest(http.MethodGet, "/missing", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/fail", nil))

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/ok?x=1", entries[0].ContextMap()["path"])
	assert.Equal(t, "rid-1", entries[0].ContextMap()["request_id"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	now := time.Unix(1_700_000_000, 0)
	limiter := ratelimit.NewRateLimiter(client,
		ratelimit.Config{RequestsPerSecond: 1, BurstCapacity: 2, Enabled: true},
		zaptest.NewLogger(t),
		ratelimit.WithClock(func() time.Time { return now }),
	)

	r := gin.New()
	r.Use(RateLimiter(limiter, zaptest.NewLogger(t)))
	r.GET("/api/users/:user_id", func(c *gin.Context) { c.Status(http.StatusOK) })

	// Different ids share the route bucket.
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/api/users/1", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/api/users/2", nil)).Code)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/users/3", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"detail":"Rate limit exceeded"}`, w.Body.String())
}

func TestRateLimiter_NilPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(nil, zaptest.NewLogger(t)))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
	}
}

func TestCORS(t *testing.T) {
	t.Run("any origin", func(t *testing.T) {
		r := gin.New()
		r.Use(CORS([]string{"*"}))
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodOptions, "/x", nil)
		req.Header.Set("Origin", "http://example.com")
		req.Header.Set("Access-Control-Request-Method", "GET")

		w := serve(r, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("listed origin only", func(t *testing.T) {
		r := gin.New()
		r.Use(CORS([]string{"http://allowed.example"}))
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		ok := httptest.NewRequest(http.MethodGet, "/x", nil)
		ok.Header.Set("Origin", "http://allowed.example")
		w := serve(r, ok)
		assert.Equal(t, "http://allowed.example", w.Header().Get("Access-Control-Allow-Origin"))

		denied := httptest.NewRequest(http.MethodGet, "/x", nil)
		denied.Header.Set("Origin", "http://other.example")
		assert.Equal(t, http.StatusForbidden, serve(r, denied).Code)
	})
}

func TestGZIP(t *testing.T) {
	r := gin.New()
	r.Use(GZIP())
	r.GET("/api/users", func(c *gin.Context) { c.JSON(http.StatusOK, []string{"a"}) })

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Accept-Encoding", "gzip")

	w := serve(r, req)

	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
}
