package handlers

import (
	"errors"
	"io"
	"net/http"

	"lottery-tool-middleware/internal/models"
	"lottery-tool-middleware/internal/services/transformer"
	"lottery-tool-middleware/internal/utils"
)

const maxWebhookBodyBytes = 1 << 20

// IgnoredEventResponse acknowledges an event type that is not relayed.
type IgnoredEventResponse struct {
	Message string `json:"message"`
	Event   string `json:"event"`
}

// BindCodeResponse is returned once a submission has been scheduled for relay.
type BindCodeResponse struct {
	BindCode string `json:"bind_code"`
}

// webhookHandler accepts form notifications, answers at once and relays in the background.
func (s *Server) webhookHandler(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r)

	source := r.PathValue("source")
	if !s.acceptsSource(source) {
		errorResponse(w, http.StatusNotFound, "unknown webhook source: "+source)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorResponse(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		logger.Warn("Failed to read webhook body", utils.Error(err))
		errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	event, err := models.DecodeFormEvent(body)
	if err != nil {
		logger.Warn("Invalid webhook payload", utils.String("source", source), utils.Error(err))
		errorResponse(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	logger = logger.With(
		utils.String("source", source),
		utils.String("formId", event.FormID),
		utils.String("rid", event.RID))
	logger.Info("Received form webhook", utils.String("event", event.Event))

	if event.Event != models.EventCreateAnswer {
		logger.Info("Skipping unhandled event", utils.String("event", event.Event))
		writeJSON(w, http.StatusOK, IgnoredEventResponse{
			Message: "event received but not handled",
			Event:   event.Event,
		})
		return
	}

	lotteryPayload, err := s.transformer.ToLottery(event)
	if err != nil {
		if models.IsValidationError(err) {
			logger.Warn("Submission rejected", utils.Error(err))
			errorResponse(w, http.StatusBadRequest, "data transformation failed: "+err.Error())
			return
		}
		logger.Error("Lottery transformation failed", utils.Error(err))
		errorResponse(w, http.StatusInternalServerError, "processing failed")
		return
	}

	automationPayload, err := s.transformer.ToAutomation(event)
	if err != nil {
		logger.Error("Power Automate transformation failed", utils.Error(err))
		errorResponse(w, http.StatusInternalServerError, "processing failed")
		return
	}

	dispatchID := s.scheduler.Schedule(*lotteryPayload, *automationPayload)
	logger.Info("Relay scheduled",
		utils.String("dispatchId", dispatchID),
		utils.String("code", lotteryPayload.Code))

	writeJSON(w, http.StatusOK, BindCodeResponse{
		BindCode: transformer.BindCode(lotteryPayload),
	})
}
