package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"lottery-tool-middleware/internal/models"
	"lottery-tool-middleware/internal/utils"
)

// TriggerResponse wraps the outcome of a manual downstream call.
type TriggerResponse struct {
	TestResult models.SendResult `json:"test_result"`
}

// testLotteryHandler sends a single lottery registration built from the request body.
func (s *Server) testLotteryHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTriggerBody(w, r)
	if !ok {
		return
	}

	payload := models.LotteryPayload{
		Code: stringOr(req, "code", "TEST123"),
		ParticipantInfo: models.ParticipantInfo{
			Name:  stringOr(req, "name", "测试用户"),
			Phone: stringOr(req, "phone", "13800138000"),
			Email: stringOr(req, "email", "test@example.com"),
		},
	}

	requestLogger(r).Info("Manual lottery trigger", utils.String("code", payload.Code))
	result := s.diagnostics.SendToLottery(r.Context(), payload)
	writeJSON(w, http.StatusOK, TriggerResponse{TestResult: result})
}

// testPowerAutomateHandler sends a reduced {name, email} record to the automation flow.
func (s *Server) testPowerAutomateHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTriggerBody(w, r)
	if !ok {
		return
	}

	payload := map[string]any{
		"name":  stringOr(req, "name", "测试用户"),
		"email": stringOr(req, "email", "test@example.com"),
	}

	requestLogger(r).Info("Manual Power Automate trigger")
	result := s.diagnostics.SendToPowerAutomateSimple(r.Context(), payload)
	writeJSON(w, http.StatusOK, TriggerResponse{TestResult: result})
}

// decodeTriggerBody reads an optional JSON object. An empty body means all defaults.
func decodeTriggerBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return nil, false
	}

	req := map[string]any{}
	if strings.TrimSpace(string(body)) == "" {
		return req, true
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid JSON in request body")
		return nil, false
	}
	return req, true
}

func stringOr(m map[string]any, key, defaultValue string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return defaultValue
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
