package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupRateLimitedRouter(rps int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(rps))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func doRequest(router *gin.Engine, remoteAddr string) int {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping", nil)
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitMiddleware_LimitsPerClient(t *testing.T) {
	router := setupRateLimitedRouter(1)

	if code := doRequest(router, "10.0.0.1:5000"); code != http.StatusOK {
		t.Errorf("first request should pass, got %d", code)
	}
	if code := doRequest(router, "10.0.0.1:5000"); code != http.StatusTooManyRequests {
		t.Errorf("second immediate request should be limited, got %d", code)
	}
}

func TestRateLimitMiddleware_ClientsAreIndependent(t *testing.T) {
	router := setupRateLimitedRouter(1)

	// Exhaust one client's bucket.
	doRequest(router, "10.0.0.1:5000")
	if code := doRequest(router, "10.0.0.1:5001"); code != http.StatusTooManyRequests {
		t.Errorf("same IP should share one bucket, got %d", code)
	}

	// A different IP still has a full bucket.
	if code := doRequest(router, "10.0.0.2:5000"); code != http.StatusOK {
		t.Errorf("distinct IP should not be limited, got %d", code)
	}
}
