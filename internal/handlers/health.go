package handlers

import (
	"net/http"
	"time"
)

// RootResponse is the liveness answer.
type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// HealthResponse is the response structure for health checks.
type HealthResponse struct {
	Status                     string `json:"status"`
	LotteryURLConfigured       bool   `json:"lottery_url_configured"`
	PowerAutomateURLConfigured bool   `json:"power_automate_url_configured"`
	Timestamp                  string `json:"timestamp"`
	Version                    string `json:"version"`
	Stage                      string `json:"stage"`
}

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Message: "Lottery webhook middleware is running",
		Version: s.config.Version,
		Status:  "healthy",
	})
}

// healthHandler reports which downstream webhooks are configured.
// It never calls them.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:                     "healthy",
		LotteryURLConfigured:       s.config.LotteryWebhookURL != "",
		PowerAutomateURLConfigured: s.config.PowerAutomateConfigured(),
		Timestamp:                  time.Now().UTC().Format(time.RFC3339),
		Version:                    s.config.Version,
		Stage:                      s.config.Stage,
	})
}
