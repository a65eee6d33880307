package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/vlatan/advocacy-site/internal/models"
)

func TestHttpError(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"Bad Request", http.StatusBadRequest},
		{"Not Found", http.StatusNotFound},
		{"Internal Server Error", http.StatusInternalServerError},
		{"Too Many Requests", http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			HttpError(recorder, tt.status)

			// Check status code
			if recorder.Code != tt.status {
				t.Errorf("got %d, want %d", recorder.Code, tt.status)
			}

			// Check if the body contains the status text + newline
			expectedBody := http.StatusText(tt.status) + "\n"
			if recorder.Body.String() != expectedBody {
				t.Errorf("got %q, want %q", recorder.Body.String(), expectedBody)
			}
		})
	}
}

func TestJSONError(t *testing.T) {

	tests := []struct {
		name     string
		status   int
		message  string
		expected models.JSONErrorData
	}{
		{"default message", http.StatusConflict, "", models.JSONErrorData{Error: "Conflict", Code: 409}},
		{"custom message", http.StatusBadRequest, "invalid email", models.JSONErrorData{Error: "invalid email", Code: 400}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/newsletter", nil)
			recorder := httptest.NewRecorder()

			JSONError(recorder, req, tt.status, tt.message)

			if recorder.Code != tt.status {
				t.Errorf("got status %d, want %d", recorder.Code, tt.status)
			}

			if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("got content type %q, want %q", ct, "application/json")
			}

			var got models.JSONErrorData
			if err := json.Unmarshal(recorder.Body.Bytes(), &got); err != nil {
				t.Fatalf("invalid JSON body; %v", err)
			}

			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("body mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCacheControl(t *testing.T) {

	tests := []struct {
		name     string
		maxAge   time.Duration
		expected string
	}{
		{"half hour", 30 * time.Minute, "public, max-age=1800, s-maxage=1800"},
		{"one day", 24 * time.Hour, "public, max-age=86400, s-maxage=86400"},
		{"zero", 0, "public, max-age=0, s-maxage=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CacheControl(tt.maxAge); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestClientIP(t *testing.T) {

	trusted := []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("2001:db8::/32"),
	}

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		trusted    []netip.Prefix
		expected   string
	}{
		{"remote address", nil, "10.0.0.1:1234", trusted, "10.0.0.1"},
		{"remote address without port", nil, "10.0.0.1", trusted, "10.0.0.1"},
		{"forwarded by trusted proxy", map[string]string{"X-Forwarded-For": "1.1.1.1"}, "10.0.0.1:1234", trusted, "1.1.1.1"},
		{
			"forwarded chain skips trusted hops",
			map[string]string{"X-Forwarded-For": "9.9.9.9, 1.1.1.1, 10.0.0.7"},
			"10.0.0.1:1234", trusted, "1.1.1.1",
		},
		{
			"forwarded chain of trusted hops only",
			map[string]string{"X-Forwarded-For": "10.0.0.9, 10.0.0.7"},
			"10.0.0.1:1234", trusted, "10.0.0.9",
		},
		{
			"cloudflare header wins",
			map[string]string{"CF-Connecting-IP": "3.3.3.3", "X-Forwarded-For": "1.1.1.1"},
			"10.0.0.1:1234", trusted, "3.3.3.3",
		},
		{"ipv6 trusted proxy", map[string]string{"X-Forwarded-For": "1.1.1.1"}, "[2001:db8::1]:443", trusted, "1.1.1.1"},
		{"forwarded from untrusted client", map[string]string{"X-Forwarded-For": "1.1.1.1"}, "8.8.8.8:1234", trusted, "8.8.8.8"},
		{"cloudflare from untrusted client", map[string]string{"CF-Connecting-IP": "3.3.3.3"}, "8.8.8.8:1234", trusted, "8.8.8.8"},
		{"no trusted proxies", map[string]string{"X-Forwarded-For": "1.1.1.1"}, "10.0.0.1:1234", nil, "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			if got := ClientIP(req, tt.trusted); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsContextErr(t *testing.T) {

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"generic", errors.New("boom"), false},
		{"canceled", context.Canceled, true},
		{"wrapped deadline", fmt.Errorf("fetch; %w", context.DeadlineExceeded), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsContextErr(tt.err); got != tt.expected {
				t.Errorf("got %t, want %t", got, tt.expected)
			}
		})
	}
}
