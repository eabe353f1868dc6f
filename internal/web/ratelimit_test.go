package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	defer rl.stop()

	assert.True(t, rl.allow("1.1.1.1"))
	assert.True(t, rl.allow("1.1.1.1"))
	assert.False(t, rl.allow("1.1.1.1"))
	assert.True(t, rl.allow("2.2.2.2"), "budgets are per client")
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl := newRateLimiter(1, 20*time.Millisecond)
	defer rl.stop()

	assert.True(t, rl.allow("1.1.1.1"))
	assert.False(t, rl.allow("1.1.1.1"))
	time.Sleep(30 * time.Millisecond)
	assert.True(t, rl.allow("1.1.1.1"))
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)
	defer rl.stop()

	h := rl.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "9.9.9.9:1000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Another port from the same client shares the budget.
	req.RemoteAddr = "9.9.9.9:2000"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}
