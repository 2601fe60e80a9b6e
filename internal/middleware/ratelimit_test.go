package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	h := RateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 3})(okHandler())

	for i := 0; i < 3; i++ {
		rec := doRequest(h, "10.0.0.1:1234")
		assert.Equal(t, http.StatusOK, rec.Code, "request %d", i)
		assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimiter_RejectsBeyondBurst(t *testing.T) {
	h := RateLimiter(RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2})(okHandler())

	doRequest(h, "10.0.0.1:1234")
	doRequest(h, "10.0.0.1:1234")
	rec := doRequest(h, "10.0.0.1:1234")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "rate limit exceeded", body["message"])
}

func TestRateLimiter_TracksClientsSeparately(t *testing.T) {
	h := RateLimiter(RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1})(okHandler())

	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(h, "10.0.0.1:5678").Code,
		"same IP, different port shares the bucket")
	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.2:1234").Code,
		"a different IP gets its own bucket")
}
