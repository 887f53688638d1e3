package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestThrottleAllowsBurstThenRejects(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/guarded", Throttle(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	var rejected int
	for i := 0; i < throttleBurst+5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		req.RemoteAddr = "203.0.113.9:1234"
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code == http.StatusTooManyRequests {
			rejected++
		}
	}

	assert.Greater(t, rejected, 0)
}

func TestThrottleTracksClientsSeparately(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/guarded", Throttle(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	// Exhaust one client.
	for i := 0; i < throttleBurst+2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		req.RemoteAddr = "203.0.113.9:1234"
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	// A different client still has its full burst.
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.RemoteAddr = "198.51.100.7:5678"
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
