package models

import (
	"errors"
	"strings"
)

// Common errors
var (
	ErrMissingLotteryURL   = errors.New("LOTTERY_WEBHOOK_URL must be configured")
	ErrMissingLotteryToken = errors.New("LOTTERY_WEBHOOK_TOKEN must be configured")
	ErrNotConfigured       = errors.New("power automate webhook url not configured")
	ErrTrailingData        = errors.New("unexpected data after JSON body")
)

// MissingFieldsError reports required form fields that had no usable answer.
type MissingFieldsError struct {
	// Fields are the semantic field keys, in lookup order.
	Fields []string
	// Titles are the matching question titles shown to people.
	Titles []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Titles, ", ")
}

// IsValidationError reports whether err is a transformation validation failure.
func IsValidationError(err error) bool {
	var missing *MissingFieldsError
	return errors.As(err, &missing)
}
