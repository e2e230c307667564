package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateLimitedRouter(rps, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimiterMiddleware(RateLimiterConfig{RequestsPerSecond: rps, Burst: burst}))
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	return router
}

func TestRateLimiterRejectsOverBurst(t *testing.T) {
	router := rateLimitedRouter(1, 1)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	// same client, inside the same second
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, w.Body.String(), "the rejection must be the final response, not a prefix of the handler's")
}

// Building many limiters must not stack up sweeper goroutines; the visitor
// map is shared, so one sweeper is enough for all of them
func TestRateLimiterSpawnsOneSweeper(t *testing.T) {
	RateLimiterMiddleware(RateLimiterConfig{RequestsPerSecond: 1, Burst: 1})
	time.Sleep(10 * time.Millisecond)

	before := runtime.NumGoroutine()
	for range 25 {
		RateLimiterMiddleware(RateLimiterConfig{RequestsPerSecond: 1, Burst: 1})
	}
	time.Sleep(10 * time.Millisecond)

	assert.LessOrEqual(t, runtime.NumGoroutine(), before+1)
}
