package transformer

import (
	"fmt"
	"time"

	"lottery-tool-middleware/internal/models"
	"lottery-tool-middleware/internal/utils"
)

// lotteryFields are required for a lottery registration, in reporting order.
var lotteryFields = []string{FieldName, FieldStudentID, FieldPhone, FieldEmail}

// Transformer maps form events onto the downstream payloads.
type Transformer struct {
	mapping  FieldMapping
	location *time.Location
}

// New creates a transformer. A nil location means time.Local.
func New(mapping FieldMapping, location *time.Location) *Transformer {
	if location == nil {
		location = time.Local
	}
	return &Transformer{mapping: mapping, location: location}
}

// NewDefault creates a transformer for the default form in local time.
func NewDefault() *Transformer {
	return New(DefaultFieldMapping, time.Local)
}

func (t *Transformer) extract(event *models.FormEvent, key string) any {
	return ExtractFieldValue(event.AnswerContents, t.mapping.QID(key))
}

// ToLottery builds the lottery registration for event.
// It fails with *models.MissingFieldsError when any required answer is missing;
// nothing partial is ever returned.
func (t *Transformer) ToLottery(event *models.FormEvent) (*models.LotteryPayload, error) {
	values := make(map[string]any, len(lotteryFields))
	missing := &models.MissingFieldsError{}
	for _, key := range lotteryFields {
		v := t.extract(event, key)
		if isBlank(v) {
			missing.Fields = append(missing.Fields, key)
			missing.Titles = append(missing.Titles, t.mapping.Title(key))
			continue
		}
		values[key] = v
	}
	if len(missing.Fields) > 0 {
		utils.GetLogger().Warn("Lottery transformation failed",
			utils.String("formId", event.FormID),
			utils.String("rid", event.RID),
			utils.Any("missing", missing.Fields))
		return nil, missing
	}

	payload := &models.LotteryPayload{
		Code: stringify(values[FieldStudentID]),
		ParticipantInfo: models.ParticipantInfo{
			Name:  stringify(values[FieldName]),
			Phone: stringify(values[FieldPhone]),
			Email: stringify(values[FieldEmail]),
		},
	}

	utils.GetLogger().Debug("Converted submission to lottery format",
		utils.String("code", payload.Code),
		utils.String("rid", event.RID))
	return payload, nil
}

// ToAutomation builds the Power Automate record for event.
// Missing answers become empty strings; the only failure is an unencodable event.
func (t *Transformer) ToAutomation(event *models.FormEvent) (*models.AutomationPayload, error) {
	raw, err := event.Raw()
	if err != nil {
		return nil, fmt.Errorf("failed to encode raw event: %w", err)
	}

	payload := &models.AutomationPayload{
		Name:           t.optional(event, FieldName),
		StudentID:      t.optional(event, FieldStudentID),
		Gender:         t.optional(event, FieldGender),
		Email:          t.optional(event, FieldEmail),
		Phone:          t.optional(event, FieldPhone),
		FormID:         event.FormID,
		SubmissionTime: FormatSubmissionTime(event.EventTs, t.location),
		RawData:        raw,
	}

	utils.GetLogger().Debug("Converted submission to Power Automate format",
		utils.String("studentId", payload.StudentID),
		utils.String("rid", event.RID))
	return payload, nil
}

func (t *Transformer) optional(event *models.FormEvent, key string) string {
	v := t.extract(event, key)
	if isBlank(v) {
		return ""
	}
	return stringify(v)
}

// BindCode returns the code handed back to the form respondent.
// It is the lottery code itself.
func BindCode(payload *models.LotteryPayload) string {
	return payload.Code
}

// FormatSubmissionTime renders an epoch-millisecond timestamp as an ISO-8601
// wall-clock time in loc, without offset. Microseconds are printed only
// when the timestamp has a sub-second part.
func FormatSubmissionTime(epochMillis int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	ts := time.UnixMilli(epochMillis).In(loc)
	if ts.Nanosecond() == 0 {
		return ts.Format("2006-01-02T15:04:05")
	}
	return ts.Format("2006-01-02T15:04:05.000000")
}
