package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func serveLogged(t *testing.T, level zapcore.Level, register func(*gin.Engine), method, target string) (*httptest.ResponseRecorder, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(level)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	register(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w, recorded
}

func requestLog(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	for _, entry := range recorded.All() {
		if entry.Message == "request" {
			return entry
		}
	}
	t.Fatal("no access log entry recorded")
	return observer.LoggedEntry{}
}

func TestGinMiddleware(t *testing.T) {
	t.Run("logs successful requests at info", func(t *testing.T) {
		w, recorded := serveLogged(t, zapcore.InfoLevel, func(r *gin.Engine) {
			r.GET("/products", func(c *gin.Context) { c.Status(http.StatusOK) })
		}, "GET", "/products")

		assert.Equal(t, http.StatusOK, w.Code)
		entry := requestLog(t, recorded)
		assert.Equal(t, zapcore.InfoLevel, entry.Level)

		fields := map[string]bool{}
		for _, f := range entry.Context {
			fields[f.Key] = true
		}
		for _, key := range []string{"status", "latency", "client_ip", "user_agent", "method", "path"} {
			assert.True(t, fields[key], key)
		}
	})

	t.Run("logs 4xx at warn and 5xx at error", func(t *testing.T) {
		_, recorded := serveLogged(t, zapcore.WarnLevel, func(r *gin.Engine) {
			r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
		}, "GET", "/missing")
		assert.Equal(t, zapcore.WarnLevel, requestLog(t, recorded).Level)

		_, recorded = serveLogged(t, zapcore.ErrorLevel, func(r *gin.Engine) {
			r.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
		}, "GET", "/broken")
		assert.Equal(t, zapcore.ErrorLevel, requestLog(t, recorded).Level)
	})

	t.Run("includes the query string when present", func(t *testing.T) {
		_, recorded := serveLogged(t, zapcore.InfoLevel, func(r *gin.Engine) {
			r.GET("/products", func(c *gin.Context) { c.Status(http.StatusOK) })
		}, "GET", "/products?search=widget&page=2")

		entry := requestLog(t, recorded)
		found := false
		for _, f := range entry.Context {
			if f.Key == "query" {
				found = true
				assert.Contains(t, f.String, "search=widget")
			}
		}
		assert.True(t, found)
	})

	t.Run("carries the request id set upstream", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		core, recorded := observer.New(zapcore.InfoLevel)
		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set("request_id", "req-123")
			c.Next()
		})
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/products", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/products", nil))

		entry := requestLog(t, recorded)
		found := false
		for _, f := range entry.Context {
			if f.Key == "request_id" {
				found = true
				assert.Equal(t, "req-123", f.String)
			}
		}
		assert.True(t, found)
	})

	t.Run("skips health probes", func(t *testing.T) {
		_, recorded := serveLogged(t, zapcore.InfoLevel, func(r *gin.Engine) {
			r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
		}, "GET", "/health")
		assert.Empty(t, recorded.All())
	})
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		router.ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	logs := recorded.All()
	require.NotEmpty(t, logs)
	assert.Equal(t, "panic recovered", logs[0].Message)
}

func TestGetGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns the request-scoped logger", func(t *testing.T) {
		core, _ := observer.New(zapcore.InfoLevel)
		var got *zap.Logger

		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/products", func(c *gin.Context) {
			got = GetGinLogger(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/products", nil))
		assert.NotNil(t, got)
	})

	t.Run("falls back to a nop logger", func(t *testing.T) {
		var got *zap.Logger

		router := gin.New()
		router.GET("/products", func(c *gin.Context) {
			got = GetGinLogger(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/products", nil))

		require.NotNil(t, got)
		assert.NotPanics(t, func() { got.Info("probe") })
	})
}
