package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tasklight/tasklight/internal/middleware"
)

func TestRateLimitBurstThenReject(t *testing.T) {
	handler := middleware.RateLimit(1, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	status := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, status("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, status("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, status("10.0.0.1:1234"))

	// Another IP has its own bucket.
	assert.Equal(t, http.StatusOK, status("10.0.0.2:1234"))
}
