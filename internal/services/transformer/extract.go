package transformer

import (
	"encoding/json"
	"fmt"
	"strconv"

	"lottery-tool-middleware/internal/models"
)

// ExtractFieldValue returns the value answering qid, or nil when no answer matches.
//
// A non-empty list is unwrapped to its first element: single-choice widgets send a
// one-element list. Multi-choice answers therefore keep only the first selection.
// An empty list is treated as no answer.
func ExtractFieldValue(answers []models.AnswerItem, qid string) any {
	if qid == "" {
		return nil
	}
	for _, answer := range answers {
		if answer.QID != qid {
			continue
		}
		if list, ok := answer.Value.([]any); ok {
			if len(list) == 0 {
				return nil
			}
			return list[0]
		}
		return answer.Value
	}
	return nil
}

// isBlank reports whether an extracted value counts as missing.
func isBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}

// stringify renders an answer value as text.
// JSON numbers keep their literal form so 20808382 never becomes 2.0808382e+07.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []any, map[string]any:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	default:
		return fmt.Sprint(val)
	}
}
