package misc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/vlatan/advocacy-site/internal/config"
	"github.com/vlatan/advocacy-site/internal/drivers/rdb"
)

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	port, err := strconv.Atoi(server.Port())
	if err != nil {
		t.Fatalf("invalid Redis port; %v", err)
	}

	cfg := &config.Config{
		BaseURL:   "https://example.org",
		RedisHost: server.Host(),
		RedisPort: port,
	}

	redisService, err := rdb.New(cfg)
	if err != nil {
		t.Fatalf("failed to create Redis client; %v", err)
	}
	t.Cleanup(func() { redisService.Client.Close() })

	return New(cfg, redisService), server
}

func TestRobotsHandler(t *testing.T) {

	s, _ := newTestService(t)

	recorder := httptest.NewRecorder()
	s.RobotsHandler(recorder, httptest.NewRequest("GET", "/robots.txt", nil))

	want := "User-agent: *\nAllow: /\n\nSitemap: https://example.org/sitemap.xml\n"
	if got := recorder.Body.String(); got != want {
		t.Errorf("got body %q, want %q", got, want)
	}

	if got := recorder.Header().Get("Content-Type"); got != "text/plain; charset=utf-8" {
		t.Errorf("got content type %q, want %q", got, "text/plain; charset=utf-8")
	}
}

func TestHealthHandler(t *testing.T) {

	tests := []struct {
		name       string
		redisDown  bool
		wantStatus int
		wantRedis  string
	}{
		{"healthy", false, http.StatusOK, "healthy"},
		{"redis down", true, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, server := newTestService(t)
			if tt.redisDown {
				server.Close()
			}

			recorder := httptest.NewRecorder()
			s.HealthHandler(recorder, httptest.NewRequest("GET", "/health/", nil))

			if recorder.Code != tt.wantStatus {
				t.Errorf("got status %d, want %d", recorder.Code, tt.wantStatus)
			}

			var body struct {
				Redis map[string]any `json:"redis_status"`
			}

			if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON body; %v", err)
			}

			if got := body.Redis["status"]; got != tt.wantRedis {
				t.Errorf("got redis status %v, want %q", got, tt.wantRedis)
			}
		})
	}
}

func TestHealthcheckHandler(t *testing.T) {

	s, _ := newTestService(t)

	recorder := httptest.NewRecorder()
	s.HealthcheckHandler(recorder, httptest.NewRequest("GET", "/healthcheck", nil))

	if recorder.Code != http.StatusOK || recorder.Body.String() != "OK" {
		t.Errorf("got %d %q, want %d %q", recorder.Code, recorder.Body.String(), http.StatusOK, "OK")
	}
}
