// Package handlers provides HTTP handlers for the lottery webhook middleware.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/cors"

	"lottery-tool-middleware/internal/config"
	"lottery-tool-middleware/internal/models"
	"lottery-tool-middleware/internal/services/transformer"
)

// Scheduler starts a background relay of one submission.
type Scheduler interface {
	Schedule(lottery models.LotteryPayload, automation models.AutomationPayload) string
}

// DiagnosticSender exercises each destination directly for the /test endpoints.
type DiagnosticSender interface {
	SendToLottery(ctx context.Context, payload models.LotteryPayload) models.SendResult
	SendToPowerAutomateSimple(ctx context.Context, payload map[string]any) models.SendResult
}

// Server holds all dependencies of the HTTP surface.
type Server struct {
	config      *config.Config
	transformer *transformer.Transformer
	scheduler   Scheduler
	diagnostics DiagnosticSender
	sources     map[string]struct{}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// NewServer wires the handlers.
func NewServer(cfg *config.Config, tr *transformer.Transformer, scheduler Scheduler, diagnostics DiagnosticSender) *Server {
	sources := make(map[string]struct{}, len(cfg.WebhookSources))
	for _, src := range cfg.WebhookSources {
		sources[strings.ToLower(src)] = struct{}{}
	}
	return &Server{
		config:      cfg,
		transformer: tr,
		scheduler:   scheduler,
		diagnostics: diagnostics,
		sources:     sources,
	}
}

// Routes returns the full handler: routes, request ids, panic recovery and CORS.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Health checks
	mux.HandleFunc("GET /{$}", s.rootHandler)
	mux.HandleFunc("GET /health", s.healthHandler)

	// Form platform webhooks
	mux.HandleFunc("POST /webhook/{source}", s.webhookHandler)

	// Manual downstream checks
	mux.HandleFunc("POST /test/lottery", s.testLotteryHandler)
	mux.HandleFunc("POST /test/power-automate", s.testPowerAutomateHandler)
	mux.HandleFunc("POST /test/automation", s.testPowerAutomateHandler)

	c := cors.New(cors.Options{
		AllowedOrigins:   s.config.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler(withRequestID(withRecovery(mux)))
}

func (s *Server) acceptsSource(source string) bool {
	_, ok := s.sources[strings.ToLower(source)]
	return ok
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func errorResponse(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}
