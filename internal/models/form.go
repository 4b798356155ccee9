// Package models defines the data structures for the lottery webhook middleware.
package models

import (
	"bytes"
	"encoding/json"
	"io"
)

// EventCreateAnswer is the only form event that is relayed downstream.
const EventCreateAnswer = "create_answer"

// AnswerItem is a single answered question in a form submission.
// Value may be a scalar, nil, a list (choice widgets) or a nested object.
type AnswerItem struct {
	QID   string `json:"qid"`
	Type  string `json:"type"`
	Title string `json:"title"`
	Value any    `json:"value"`
}

// FormEvent is the webhook notification sent by the form platform.
type FormEvent struct {
	RID            string       `json:"rid"`
	FormID         string       `json:"formId"`
	FormTitle      string       `json:"formTitle"`
	AID            string       `json:"aid"`
	EventTs        int64        `json:"eventTs"`
	MessageTs      int64        `json:"messageTs"`
	CreatorID      string       `json:"creatorId"`
	CreatorName    string       `json:"creatorName"`
	Event          string       `json:"event"`
	Version        int          `json:"version"`
	AnswerContents []AnswerItem `json:"answerContents"`

	// raw holds the request body exactly as received.
	raw json.RawMessage
}

// DecodeFormEvent parses a webhook body, keeping JSON numbers in their literal form
// and remembering the original bytes for auditing.
func DecodeFormEvent(body []byte) (*FormEvent, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var event FormEvent
	if err := dec.Decode(&event); err != nil {
		return nil, err
	}
	// raw must stay a single JSON value
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrTrailingData
	}
	event.raw = append(json.RawMessage(nil), bytes.TrimSpace(body)...)
	return &event, nil
}

// Raw returns the original webhook body, or a re-encoding of the event
// when it was not produced by DecodeFormEvent.
func (e *FormEvent) Raw() (json.RawMessage, error) {
	if len(e.raw) > 0 {
		return e.raw, nil
	}
	return json.Marshal(e)
}
