package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPublicRateLimiterBlocksAfterBurst(t *testing.T) {
	limiter := NewPublicRateLimiter(60, 2)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	handler := limiter.Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/leads", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("1.1.1.1:1000"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
	if code := send("1.1.1.1:1000"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", code)
	}
	if code := send("2.2.2.2:1000"); code != http.StatusOK {
		t.Fatalf("other ip should have its own bucket, got %d", code)
	}

	now = now.Add(time.Second)
	if code := send("1.1.1.1:1000"); code != http.StatusOK {
		t.Fatalf("expected a token after refill, got %d", code)
	}
}

func TestPublicRateLimiterSweepsIdleBuckets(t *testing.T) {
	limiter := NewPublicRateLimiter(60, 1)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.allow("1.1.1.1")
	now = now.Add(idleLimiterTTL + time.Second)
	limiter.allow("2.2.2.2")

	if _, ok := limiter.limiters["1.1.1.1"]; ok {
		t.Fatal("expected idle bucket to be dropped")
	}
	if len(limiter.limiters) != 1 {
		t.Fatalf("expected one bucket, got %d", len(limiter.limiters))
	}
}

func TestNilPublicRateLimiterIsPassThrough(t *testing.T) {
	limiter := NewPublicRateLimiter(0, 0)
	handler := limiter.Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
}
