package misc

import (
	"log"
	"net/http"

	"github.com/vlatan/advocacy-site/internal/utils"
)

// RobotsHandler serves robots.txt pointing the crawlers to the sitemap index
func (s *Service) RobotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write(robotsTxt(s.config.BaseURL)); err != nil {
		log.Printf("Failed to write response to %q: %v", r.URL.Path, err)
	}
}

// Redis health status and basic server stats
func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {

	redisStatus := s.rdb.Health(r.Context())

	data := map[string]any{
		"redis_status":  redisStatus,
		"server_status": getServerStats(),
	}

	status := http.StatusOK
	if redisStatus["status"] != "healthy" {
		status = http.StatusServiceUnavailable
	}

	utils.WriteJSON(w, r, status, data)
}

// HealthcheckHandler only reports that the process is up
func (s *Service) HealthcheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Printf("Failed to write response to %q: %v", r.URL.Path, err)
	}
}
