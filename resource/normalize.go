package resource

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"

	"github.com/crmarques/jbossctl/faults"
)

// Normalize converts decoded JSON/YAML input into a closed set of types:
// nil, bool, string, int64, float64, []any and map[string]any.
func Normalize(value Value) (Value, error) {
	switch typed := value.(type) {
	case nil, bool, string:
		return typed, nil
	case float32:
		return normalizeFloat(float64(typed))
	case float64:
		return normalizeFloat(typed)
	case int:
		return int64(typed), nil
	case int8:
		return int64(typed), nil
	case int16:
		return int64(typed), nil
	case int32:
		return int64(typed), nil
	case int64:
		return typed, nil
	case uint:
		return normalizeUint(uint64(typed))
	case uint8:
		return normalizeUint(uint64(typed))
	case uint16:
		return normalizeUint(uint64(typed))
	case uint32:
		return normalizeUint(uint64(typed))
	case uint64:
		return normalizeUint(typed)
	case json.Number:
		return normalizeJSONNumber(typed)
	case AttributeSet:
		return normalizeStringMap(typed)
	case map[string]any:
		return normalizeStringMap(typed)
	case []any:
		return normalizeSlice(typed)
	}

	return normalizeReflectValue(value)
}

func normalizeFloat(value float64) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, validationError("attribute value contains non-finite float", nil)
	}
	return value, nil
}

func normalizeUint(value uint64) (int64, error) {
	if value > math.MaxInt64 {
		return 0, validationError("attribute value contains integer out of range", nil)
	}
	return int64(value), nil
}

func normalizeJSONNumber(value json.Number) (Value, error) {
	if asInt, err := value.Int64(); err == nil {
		return asInt, nil
	}
	if asBig, ok := new(big.Int).SetString(value.String(), 10); ok && !asBig.IsInt64() {
		return nil, validationError("attribute value contains integer out of range", nil)
	}

	asFloat, err := value.Float64()
	if err != nil {
		return nil, validationError("attribute value contains invalid number", err)
	}
	return normalizeFloat(asFloat)
}

func normalizeSlice(values []any) ([]any, error) {
	normalized := make([]any, len(values))
	for idx, item := range values {
		itemValue, err := Normalize(item)
		if err != nil {
			return nil, err
		}
		normalized[idx] = itemValue
	}
	return normalized, nil
}

func normalizeStringMap(values map[string]any) (map[string]any, error) {
	normalized := make(map[string]any, len(values))
	for key, item := range values {
		itemValue, err := Normalize(item)
		if err != nil {
			return nil, err
		}
		normalized[key] = itemValue
	}
	return normalized, nil
}

func normalizeReflectValue(value any) (Value, error) {
	reflectValue := reflect.ValueOf(value)
	switch reflectValue.Kind() {
	case reflect.Map:
		normalized := make(map[string]any, reflectValue.Len())
		iterator := reflectValue.MapRange()
		for iterator.Next() {
			key, ok := iterator.Key().Interface().(string)
			if !ok {
				if iterator.Key().Kind() != reflect.String {
					return nil, validationError("attribute map keys must be strings", nil)
				}
				key = iterator.Key().String()
			}
			itemValue, err := Normalize(iterator.Value().Interface())
			if err != nil {
				return nil, err
			}
			normalized[key] = itemValue
		}
		return normalized, nil
	case reflect.Slice, reflect.Array:
		normalized := make([]any, reflectValue.Len())
		for idx := range reflectValue.Len() {
			itemValue, err := Normalize(reflectValue.Index(idx).Interface())
			if err != nil {
				return nil, err
			}
			normalized[idx] = itemValue
		}
		return normalized, nil
	default:
		return nil, validationError(fmt.Sprintf("unsupported attribute value type %T", value), nil)
	}
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}
