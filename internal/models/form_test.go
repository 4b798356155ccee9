package models_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lottery-tool-middleware/internal/models"
)

const formBody = `{"rid":"r1","formId":"F1","event":"create_answer","answerContents":[` +
	`{"qid":"SID_Q","type":"numberInput","title":"Student ID","value":20808382}]}`

func TestDecodeFormEvent_KeepsRawBody(t *testing.T) {
	event, err := models.DecodeFormEvent([]byte("  " + formBody + "\n"))
	require.NoError(t, err)

	assert.Equal(t, "F1", event.FormID)
	assert.Equal(t, json.Number("20808382"), event.AnswerContents[0].Value)

	raw, err := event.Raw()
	require.NoError(t, err)
	assert.JSONEq(t, formBody, string(raw))
	assert.True(t, json.Valid(raw))
}

func TestDecodeFormEvent_RejectsTrailingData(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"trailing text", formBody + " trailing"},
		{"second document", formBody + formBody},
		{"stray brace", formBody + "}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := models.DecodeFormEvent([]byte(tt.body))
			assert.Nil(t, event)
			assert.True(t, errors.Is(err, models.ErrTrailingData))
		})
	}
}

func TestDecodeFormEvent_Invalid(t *testing.T) {
	_, err := models.DecodeFormEvent([]byte(`{"event":`))
	assert.Error(t, err)
}
