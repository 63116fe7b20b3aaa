package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/crmarques/jbossctl/resource"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

const (
	stdinFileIndicator = "-"
	maxInputBytes      = 4 << 20
)

func ReadInput(command *cobra.Command, flags InputFlags) ([]byte, error) {
	if flags.Payload == "" {
		return nil, nil
	}
	if flags.Payload != stdinFileIndicator {
		file, err := os.Open(flags.Payload)
		if err != nil {
			return nil, ValidationError("input file could not be opened", err)
		}
		defer file.Close()
		return readNonEmpty(file)
	}
	return readNonEmpty(command.InOrStdin())
}

func DecodeInputData[T any](data []byte, format string) (T, error) {
	var output T

	switch format {
	case OutputJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		if err := decoder.Decode(&output); err != nil {
			return output, ValidationError("invalid json input", err)
		}
	case "", OutputYAML:
		if err := yaml.Unmarshal(data, &output); err != nil {
			return output, ValidationError("invalid yaml input", err)
		}
	default:
		return output, ValidationError("invalid input format: use json or yaml", nil)
	}

	return output, nil
}

// DecodeAttributes reads an attribute map from the input flags and applies
// key=value assignments on top. Assignment values are YAML scalars, so
// "min-pool-size=20" sets an integer.
func DecodeAttributes(command *cobra.Command, flags InputFlags, assignments []string) (resource.AttributeSet, error) {
	attributes := resource.AttributeSet{}

	data, err := ReadInput(command, flags)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		decoded, err := DecodeInputData[map[string]any](data, flags.Format)
		if err != nil {
			return nil, err
		}
		for key, value := range decoded {
			attributes[key] = value
		}
	}

	for _, assignment := range assignments {
		key, raw, found := strings.Cut(assignment, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, ValidationError("invalid attribute assignment: expected key=value", nil)
		}
		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			return nil, ValidationError("invalid attribute value for "+key, err)
		}
		if strings.TrimSpace(raw) == "" {
			value = nil
		}
		attributes[key] = value
	}

	normalized, err := resource.Normalize(map[string]any(attributes))
	if err != nil {
		return nil, err
	}
	return resource.AttributeSet(normalized.(map[string]any)), nil
}

func readNonEmpty(reader io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(reader, maxInputBytes+1))
	if err != nil {
		return nil, ValidationError("failed to read input", err)
	}
	if int64(len(data)) > maxInputBytes {
		return nil, ValidationError("input exceeds maximum supported size", errors.New("input too large"))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ValidationError("input is empty", nil)
	}
	return data, nil
}
