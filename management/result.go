package management

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/crmarques/jbossctl/faults"
	"github.com/crmarques/jbossctl/resource"
)

const OutcomeSuccess = "success"

type Result struct {
	Outcome            string          `json:"outcome"`
	Result             json.RawMessage `json:"result,omitempty"`
	FailureDescription json.RawMessage `json:"failure-description,omitempty"`
	RolledBack         bool            `json:"rolled-back,omitempty"`
}

// Client performs single request/response cycles against a management
// endpoint. Execute returns an error only when the round trip itself fails;
// an operation rejected by the server comes back as a non-success Result.
type Client interface {
	Execute(ctx context.Context, operation Operation) (Result, error)
	Upload(ctx context.Context, name string, content io.Reader) (BytesValue, error)
}

// DeploymentRecord is the subset of a deployment resource read by the
// deployment reconciler.
type DeploymentRecord struct {
	Name        string        `json:"name"`
	RuntimeName string        `json:"runtime-name,omitempty"`
	Enabled     bool          `json:"enabled"`
	Content     []ContentItem `json:"content"`
}

func (r Result) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}

// Failure returns the failure description as text. Descriptions are usually
// strings but host-controller failures nest them in objects.
func (r Result) Failure() string {
	trimmed := bytes.TrimSpace(r.FailureDescription)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		if r.Outcome == "" {
			return "empty outcome"
		}
		return "outcome " + r.Outcome
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return text
	}

	compacted := &bytes.Buffer{}
	if err := json.Compact(compacted, trimmed); err != nil {
		return string(trimmed)
	}
	return compacted.String()
}

func (r Result) Decode(target any) error {
	if len(bytes.TrimSpace(r.Result)) == 0 {
		return faults.NewTypedError(faults.OperationError, "operation result is empty", nil)
	}
	if err := json.Unmarshal(r.Result, target); err != nil {
		return faults.NewTypedError(faults.OperationError, "operation result has unexpected shape", err)
	}
	return nil
}

// Value decodes the result payload into normalized generic values, keeping
// integer precision.
func (r Result) Value() (resource.Value, error) {
	trimmed := bytes.TrimSpace(r.Result)
	if len(trimmed) == 0 {
		return nil, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, faults.NewTypedError(faults.OperationError, "operation result is not valid JSON", err)
	}
	return resource.Normalize(value)
}

func (r Result) Attributes() (resource.AttributeSet, error) {
	value, err := r.Value()
	if err != nil {
		return nil, err
	}
	if value == nil {
		return resource.AttributeSet{}, nil
	}

	attributes, ok := value.(map[string]any)
	if !ok {
		return nil, faults.NewTypedError(
			faults.OperationError,
			fmt.Sprintf("read-resource result must be an object, got %T", value),
			nil,
		)
	}
	return resource.AttributeSet(attributes), nil
}

func NewBytesValue(raw []byte) BytesValue {
	return BytesValue{Base64: base64.StdEncoding.EncodeToString(raw)}
}

func (b BytesValue) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(strings.TrimSpace(b.Base64))
}

func (b BytesValue) Hex() (string, error) {
	raw, err := b.Bytes()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// OperationError reports a server-side failure of operation verbatim.
func OperationError(operation Operation, result Result) error {
	message := fmt.Sprintf("%s failed: %s", operation.Describe(), result.Failure())
	if result.RolledBack {
		message += " (rolled back)"
	}
	return faults.NewTypedError(faults.OperationError, message, nil)
}
