package common

import (
	"context"
	"strings"

	"github.com/crmarques/jbossctl/resource"
	"github.com/itchyny/gojq"
)

// ApplyQuery filters value through a jq expression. A single result is
// returned as is; several results are returned as a list.
func ApplyQuery(ctx context.Context, value resource.Value, expression string) (resource.Value, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return value, nil
	}

	query, err := gojq.Parse(trimmed)
	if err != nil {
		return nil, ValidationError("invalid jq expression", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, ValidationError("invalid jq expression", err)
	}

	input, err := jqInput(value)
	if err != nil {
		return nil, err
	}

	iterator := code.RunWithContext(ctx, input)
	results := make([]any, 0, 1)
	for {
		item, ok := iterator.Next()
		if !ok {
			break
		}
		if itemErr, isErr := item.(error); isErr {
			return nil, ValidationError("failed to evaluate jq expression", itemErr)
		}
		results = append(results, item)
	}

	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

// jqInput converts normalized values into the plain types gojq accepts.
func jqInput(value resource.Value) (any, error) {
	switch typed := value.(type) {
	case resource.AttributeSet:
		return jqInput(map[string]any(typed))
	case map[string]any:
		converted := make(map[string]any, len(typed))
		for key, item := range typed {
			next, err := jqInput(item)
			if err != nil {
				return nil, err
			}
			converted[key] = next
		}
		return converted, nil
	case []any:
		converted := make([]any, len(typed))
		for idx, item := range typed {
			next, err := jqInput(item)
			if err != nil {
				return nil, err
			}
			converted[idx] = next
		}
		return converted, nil
	case int64:
		return int(typed), nil
	default:
		return typed, nil
	}
}
