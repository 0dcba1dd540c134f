package api

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "buckets are per IP")
	assert.Equal(t, 61, rl.RetryAfter("a"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("a"), "window reset")
	assert.Equal(t, 0, rl.RetryAfter("unknown"))
}

func TestRateLimiterCleanup(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }
	rl.lastCleanup = now

	rl.Allow("stale")
	now = now.Add(5 * time.Minute)
	rl.Allow("fresh")

	_, ok := rl.buckets["stale"]
	assert.False(t, ok)
	_, ok = rl.buckets["fresh"]
	assert.True(t, ok)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	assert.Equal(t, "10.0.0.7", clientIP(req, false))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "10.0.0.7", clientIP(req, false), "forwarded header ignored without a trusted proxy")
	assert.Equal(t, "203.0.113.9", clientIP(req, true))

	req.Header.Set("X-Forwarded-For", " ")
	assert.Equal(t, "10.0.0.7", clientIP(req, true))

	req = httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", clientIP(req, false))
}

func TestAdmit(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Hour)
	rl.now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	assert.True(t, rl.admit(rec, "10.0.0.7"))
	assert.Equal(t, 200, rec.Code)

	now = now.Add(30 * time.Minute)
	rec = httptest.NewRecorder()
	assert.False(t, rl.admit(rec, "10.0.0.7"))
	assert.Equal(t, 429, rec.Code)
	assert.Equal(t, "1801", rec.Header().Get("Retry-After"))
}
