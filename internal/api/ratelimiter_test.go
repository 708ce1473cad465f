package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type staticLimiter struct {
	allow bool
}

func (s *staticLimiter) Allow() bool {
	return s.allow
}

func TestRateLimitMiddlewareBlocksWhenLimiterDenies(t *testing.T) {
	middleware := rateLimitMiddleware(&staticLimiter{allow: false}, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler should not execute when rate limited")
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/transition", nil)
	middleware.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "1" {
		t.Fatalf("expected Retry-After of 1 second, got %q", got)
	}
}

func TestRateLimitMiddlewarePassesWhenLimiterAllows(t *testing.T) {
	var called bool
	middleware := rateLimitMiddleware(&staticLimiter{allow: true}, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	middleware.ServeHTTP(rec, req)

	if !called {
		t.Fatalf("expected handler to execute when limiter allows")
	}
}

func TestRateLimitMiddlewareSkipsProbes(t *testing.T) {
	for _, path := range []string{"/api/health", "/metrics"} {
		var called bool
		middleware := rateLimitMiddleware(&staticLimiter{allow: false}, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			called = true
		}))

		rec := httptest.NewRecorder()
		middleware.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		if !called {
			t.Fatalf("expected %s to bypass the rate limiter", path)
		}
	}
}

func TestNewTokenBucketLimiterUsesDefaults(t *testing.T) {
	limiter := newTokenBucketLimiter(0, 0)
	if limiter == nil {
		t.Fatalf("expected limiter instance")
	}
	if !limiter.Allow() {
		t.Fatalf("expected first request to be allowed")
	}
}

func TestTokenBucketRetryAfter(t *testing.T) {
	limiter := newTokenBucketLimiter(0.25, 1).(*limiterAdapter)
	if wait := limiter.RetryAfter(); wait != 0 {
		t.Fatalf("expected no wait with a full bucket, got %s", wait)
	}
	if !limiter.Allow() {
		t.Fatalf("expected first request to be allowed")
	}

	wait := limiter.RetryAfter()
	if wait <= 3*time.Second || wait > 4*time.Second {
		t.Fatalf("expected roughly 4s until the next token, got %s", wait)
	}
	if got := retryAfterSeconds(limiter); got != "4" {
		t.Fatalf("expected Retry-After of 4 seconds, got %q", got)
	}
}
