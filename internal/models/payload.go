package models

import (
	"encoding/json"
	"time"
)

// ParticipantInfo identifies the person behind a lottery code.
type ParticipantInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// LotteryPayload is one lottery code registration.
// The lottery endpoint expects a JSON array of these.
type LotteryPayload struct {
	Code            string          `json:"code"`
	ParticipantInfo ParticipantInfo `json:"participant_info"`
}

// AutomationPayload is the flattened record sent to the Power Automate flow.
type AutomationPayload struct {
	Name           string          `json:"name"`
	StudentID      string          `json:"student_id"`
	Gender         string          `json:"gender"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	FormID         string          `json:"form_id"`
	SubmissionTime string          `json:"submission_time"`
	RawData        json.RawMessage `json:"raw_data"`
}

// SendResult describes the outcome of one outbound webhook call.
// Failures are reported here instead of as errors.
type SendResult struct {
	Success    bool   `json:"success"`
	StatusCode *int   `json:"status_code,omitempty"`
	Response   any    `json:"response,omitempty"`
	Error      string `json:"error,omitempty"`
	SentData   any    `json:"sent_data,omitempty"`
}

// FailedResult builds an unsuccessful SendResult.
// statusCode is zero when no HTTP response was received.
func FailedResult(statusCode int, err error) SendResult {
	result := SendResult{Success: false}
	if statusCode != 0 {
		result.StatusCode = &statusCode
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

// DispatchReport is the combined outcome of relaying one form submission.
type DispatchReport struct {
	DispatchID    string        `json:"dispatch_id"`
	LotterySystem SendResult    `json:"lottery_system"`
	PowerAutomate SendResult    `json:"power_automate"`
	Duration      time.Duration `json:"duration"`
}

// Succeeded reports whether both destinations accepted the submission.
func (r DispatchReport) Succeeded() bool {
	return r.LotterySystem.Success && r.PowerAutomate.Success
}
