package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog-service/config"
	"catalog-service/pkg/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimiterPerClient(t *testing.T) {
	rl := newRateLimiter(context.Background(), 1, 2, time.Hour, time.Hour)
	defer rl.Shutdown()
	h := rl.Middleware()(okHandler)

	codes := func(ip string, n int) []int {
		var out []int
		for i := 0; i < n; i++ {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = ip + ":1234"
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			out = append(out, rec.Code)
		}
		return out
	}

	got := codes("10.0.0.1", 3)
	if got[0] != http.StatusOK || got[1] != http.StatusOK || got[2] != http.StatusTooManyRequests {
		t.Fatalf("first client codes = %v", got)
	}
	if got := codes("10.0.0.2", 1); got[0] != http.StatusOK {
		t.Fatalf("second client throttled: %v", got)
	}
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	rl := newRateLimiter(context.Background(), 1, 1, time.Hour, time.Minute)
	defer rl.Shutdown()

	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.visitor("a")
	now = now.Add(2 * time.Minute)
	rl.visitor("b")

	rl.evictIdle()
	if _, ok := rl.visitors["a"]; ok {
		t.Fatal("idle client a was kept")
	}
	if _, ok := rl.visitors["b"]; !ok {
		t.Fatal("active client b was evicted")
	}
}

func TestNewRateLimiterFromConfig(t *testing.T) {
	rl := NewRateLimiter(context.Background(), &config.Config{RateLimitRPS: 5, RateLimitBurst: 10})
	defer rl.Shutdown()
	if rl.limit != 5 || rl.burst != 10 {
		t.Fatalf("limit %v burst %d", rl.limit, rl.burst)
	}
}

func TestCORS(t *testing.T) {
	h := NewCORSMiddleware(&config.Config{AllowedOrigin: "http://a.test, http://b.test"})(okHandler)

	tests := []struct {
		origin string
		method string
		allow  string
		code   int
	}{
		{"http://a.test", http.MethodGet, "http://a.test", http.StatusOK},
		{"http://b.test", http.MethodOptions, "http://b.test", http.StatusNoContent},
		{"http://evil.test", http.MethodGet, "", http.StatusOK},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, "/", nil)
		req.Header.Set("Origin", tt.origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.allow {
			t.Errorf("%s: allow origin = %q, want %q", tt.origin, got, tt.allow)
		}
		if rec.Code != tt.code {
			t.Errorf("%s %s: status %d, want %d", tt.method, tt.origin, rec.Code, tt.code)
		}
	}
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	var sawLogger bool
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawLogger = logger.WithContext(r.Context()) != logger.Get()
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if len(rec.Header().Get(requestIDHeader)) != 8 {
		t.Fatalf("request id = %q", rec.Header().Get(requestIDHeader))
	}
	if !sawLogger {
		t.Fatal("handler did not get a request-scoped logger")
	}
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(requestIDHeader, "upstream-1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "upstream-1" {
		t.Fatalf("request id = %q, want upstream-1", got)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	if got := clientIP(req); got != "192.0.2.1" {
		t.Fatalf("remote addr ip = %q", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := clientIP(req); got != "203.0.113.9" {
		t.Fatalf("forwarded ip = %q", got)
	}
}
