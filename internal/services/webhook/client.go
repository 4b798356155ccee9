// Package webhook sends relayed submissions to the downstream webhooks.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lottery-tool-middleware/internal/models"
	"lottery-tool-middleware/internal/utils"
)

const (
	// DefaultTimeout bounds every outbound call.
	DefaultTimeout = 30 * time.Second

	userAgent            = "Lottery-Middleware/1.0"
	maxResponseBodyBytes = 10 << 20
	maxErrorBodyChars    = 512
)

// HTTPDoer is the subset of *http.Client used by Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client posts payloads to the lottery system and the Power Automate flow.
// It is safe for concurrent use; the underlying connection pool is shared.
type Client struct {
	lotteryURL       string
	lotteryToken     string
	powerAutomateURL string
	httpClient       HTTPDoer
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.httpClient = doer
		}
	}
}

// NewClient creates a webhook client. powerAutomateURL may be empty.
func NewClient(lotteryURL, lotteryToken, powerAutomateURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		lotteryURL:       lotteryURL,
		lotteryToken:     lotteryToken,
		powerAutomateURL: powerAutomateURL,
		httpClient:       &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PowerAutomateConfigured reports whether the automation URL is set.
func (c *Client) PowerAutomateConfigured() bool {
	return c.powerAutomateURL != ""
}

// SendToLottery registers one lottery code.
// The lottery API takes a batch, so the payload is wrapped in a one-element array.
func (c *Client) SendToLottery(ctx context.Context, payload models.LotteryPayload) models.SendResult {
	logger := utils.GetLogger()

	headers := map[string]string{
		"Authorization": "Bearer " + c.lotteryToken,
	}
	status, body, err := c.postJSON(ctx, c.lotteryURL, []models.LotteryPayload{payload}, headers)
	if err != nil {
		logger.Error("Failed to send to lottery system",
			utils.String("code", payload.Code),
			utils.Int("statusCode", status),
			utils.Error(err))
		return models.FailedResult(status, err)
	}

	logger.Info("Sent to lottery system",
		utils.String("code", payload.Code),
		utils.Int("statusCode", status))
	return models.SendResult{
		Success:    true,
		StatusCode: &status,
		Response:   decodeBody(body),
	}
}

// SendToPowerAutomate forwards the full automation record.
func (c *Client) SendToPowerAutomate(ctx context.Context, payload models.AutomationPayload) models.SendResult {
	return c.sendToPowerAutomate(ctx, payload, nil)
}

// SendToPowerAutomateSimple forwards an ad hoc object and echoes it back in the result.
func (c *Client) SendToPowerAutomateSimple(ctx context.Context, payload map[string]any) models.SendResult {
	return c.sendToPowerAutomate(ctx, payload, payload)
}

func (c *Client) sendToPowerAutomate(ctx context.Context, payload any, echo any) models.SendResult {
	logger := utils.GetLogger()

	if !c.PowerAutomateConfigured() {
		logger.Warn("Power Automate URL not configured, skipping")
		result := models.FailedResult(0, models.ErrNotConfigured)
		result.SentData = echo
		return result
	}

	status, body, err := c.postJSON(ctx, c.powerAutomateURL, payload, nil)
	if err != nil {
		logger.Error("Failed to send to Power Automate",
			utils.Int("statusCode", status),
			utils.Error(err))
		result := models.FailedResult(status, err)
		result.SentData = echo
		return result
	}

	logger.Info("Sent to Power Automate", utils.Int("statusCode", status))
	return models.SendResult{
		Success:    true,
		StatusCode: &status,
		Response:   string(body),
		SentData:   echo,
	}
}

// postJSON sends payload and returns the status code and body of a 2xx response.
// The status code is also returned alongside non-2xx errors.
func (c *Client) postJSON(ctx context.Context, url string, payload any, headers map[string]string) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, body, fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, truncate(string(body)))
	}

	return resp.StatusCode, body, nil
}

// decodeBody parses a JSON response, falling back to the raw text.
func decodeBody(body []byte) any {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}
	}
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return string(body)
	}
	return decoded
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrorBodyChars {
		return s
	}
	return s[:maxErrorBodyChars] + "..."
}
