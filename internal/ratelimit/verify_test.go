package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewVerifyLimiterEnforcesRate(t *testing.T) {
	mw, err := NewVerifyLimiter(nil, "3-H")
	if err != nil {
		t.Fatalf("build limiter: %v", err)
	}
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/rentals/abc/verify", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d should pass, got %d", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rentals/abc/verify", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("request over the limit should be rejected, got %d", rec.Code)
	}
}

func TestNewVerifyLimiterRejectsBadFormat(t *testing.T) {
	if _, err := NewVerifyLimiter(nil, "not-a-rate"); err == nil {
		t.Fatal("expected format error")
	}
}

func TestNewVerifyLimiterDefaultRate(t *testing.T) {
	if _, err := NewVerifyLimiter(nil, ""); err != nil {
		t.Fatalf("default rate should parse: %v", err)
	}
}
