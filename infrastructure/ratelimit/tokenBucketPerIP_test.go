package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func limitedServer() *gin.Engine {
	gin.SetMode(gin.TestMode)
	server := gin.New()
	server.Use(TokenBucketPerIP())
	server.POST("/cycle", func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})
	return server
}

func TestTokenBucketThrottlesARepeatedCaller(t *testing.T) {
	server := limitedServer()

	allowed, limited := 0, 0
	for i := 0; i < 60; i++ {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest("POST", "/cycle", nil)
		request.RemoteAddr = "198.51.100.7:4567"
		server.ServeHTTP(recorder, request)

		switch recorder.Code {
		case http.StatusOK:
			allowed++
		case http.StatusTooManyRequests:
			limited++
		default:
			t.Fatalf("unexpected status %d on request %d", recorder.Code, i)
		}
	}

	if allowed == 0 {
		t.Fatal("a caller inside the budget must get through")
	}
	if limited == 0 {
		t.Fatal("a caller hammering the endpoint must be throttled")
	}
}
