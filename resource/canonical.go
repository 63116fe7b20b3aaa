package resource

import (
	"encoding/json"
	"strconv"
)

const (
	undefinedMarker = "<undefined>"
	expressionKey   = "EXPRESSION_VALUE"
)

// Canonical renders value in the single string form used to compare desired
// and current attributes. Scalars compare by their text, so 20 and "20" are
// equal; an expression wrapper compares equal to its expression string.
func Canonical(value Value) (string, error) {
	normalized, err := Normalize(value)
	if err != nil {
		return "", err
	}

	switch typed := normalized.(type) {
	case []any, map[string]any:
		if expression, ok := expressionText(typed); ok {
			return expression, nil
		}
		encoded, err := json.Marshal(stringifyTree(typed))
		if err != nil {
			return "", validationError("failed to encode attribute value", err)
		}
		return string(encoded), nil
	default:
		return canonicalScalar(typed), nil
	}
}

func canonicalScalar(value Value) string {
	switch typed := value.(type) {
	case nil:
		return undefinedMarker
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'g', -1, 64)
	default:
		return ""
	}
}

func stringifyTree(value Value) Value {
	switch typed := value.(type) {
	case map[string]any:
		if expression, ok := expressionText(typed); ok {
			return expression
		}
		converted := make(map[string]any, len(typed))
		for key, item := range typed {
			converted[key] = stringifyTree(item)
		}
		return converted
	case []any:
		converted := make([]any, len(typed))
		for idx, item := range typed {
			converted[idx] = stringifyTree(item)
		}
		return converted
	default:
		return canonicalScalar(typed)
	}
}

func expressionText(value Value) (string, bool) {
	typed, ok := value.(map[string]any)
	if !ok || len(typed) != 1 {
		return "", false
	}
	expression, ok := typed[expressionKey].(string)
	return expression, ok
}
