package request

import (
	"encoding/json"
	"io"

	"github.com/crmarques/jbossctl/faults"
	"github.com/crmarques/jbossctl/internal/cli/common"
	"github.com/crmarques/jbossctl/management"
	"github.com/crmarques/jbossctl/resource"
	"github.com/crmarques/jbossctl/yamlutil"
	"github.com/spf13/cobra"
)

type response struct {
	Changed bool           `json:"changed" yaml:"changed"`
	Meta    resource.Value `json:"meta" yaml:"meta"`
}

// NewCommand sends one raw management operation. Any operation may change
// server state, so a successful request always reports changed.
func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var input common.InputFlags
	var query string

	command := &cobra.Command{
		Use:   "request",
		Short: "Send a raw management operation",
		Example: "  echo '{\"operation\":\"read-attribute\",\"address\":\"/subsystem=undertow\",\"name\":\"statistics-enabled\"}' | jbossctl request -f - -i json\n" +
			"  jbossctl request -f operation.yaml --query '.result'",
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			if globalFlags.PasswordStdin && input.Payload == "-" {
				return common.ValidationError("flag --password-stdin cannot be combined with an operation read from stdin", nil)
			}
			data, err := common.ReadInput(command, input)
			if err != nil {
				return err
			}
			if len(data) == 0 {
				return common.ValidationError("flag --operation is required", nil)
			}
			operation, err := decodeOperation(data, input.Format)
			if err != nil {
				return err
			}

			if globalFlags.Check {
				return common.WriteOutput(command, globalFlags.Output, response{Changed: true, Meta: nil}, renderText)
			}

			session, err := common.OpenSession(command.Context(), command, deps, globalFlags)
			if err != nil {
				return err
			}
			result, err := session.Client.Execute(command.Context(), operation)
			if err != nil {
				return err
			}
			if !result.Succeeded() {
				failure := response{Changed: false, Meta: failureMeta(result)}
				if err := common.WriteOutput(command, globalFlags.Output, failure, renderText); err != nil {
					return err
				}
				return management.OperationError(operation, result)
			}

			value, err := result.Value()
			if err != nil {
				return err
			}
			value, err = common.ApplyQuery(command.Context(), value, query)
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.Output, response{Changed: true, Meta: value}, renderText)
		},
	}

	common.BindInputFlags(command, &input, "operation", "operation file")
	command.Flags().StringVarP(&query, "query", "q", "", "jq expression applied to the result")
	return command
}

// decodeOperation accepts JSON directly; YAML is converted to JSON first so
// both go through the same wire decoder.
func decodeOperation(data []byte, format string) (management.Operation, error) {
	var operation management.Operation
	switch format {
	case common.OutputJSON:
	case "", common.OutputYAML:
		decoded, err := common.DecodeInputData[map[string]any](data, common.OutputYAML)
		if err != nil {
			return management.Operation{}, err
		}
		normalized, err := resource.Normalize(decoded)
		if err != nil {
			return management.Operation{}, err
		}
		data, err = json.Marshal(normalized)
		if err != nil {
			return management.Operation{}, common.ValidationError("operation could not be encoded", err)
		}
	default:
		return management.Operation{}, common.ValidationError("invalid input format: use json or yaml", nil)
	}

	if err := json.Unmarshal(data, &operation); err != nil {
		if faults.CategoryOf(err) == faults.ValidationError {
			return management.Operation{}, err
		}
		return management.Operation{}, common.ValidationError("invalid operation", err)
	}
	return operation, nil
}

// failureMeta keeps the server envelope so callers can inspect the failure
// description and rollback flag.
func failureMeta(result management.Result) resource.Value {
	meta := map[string]any{
		"outcome":     result.Outcome,
		"rolled-back": result.RolledBack,
	}
	var description any
	if len(result.FailureDescription) > 0 && json.Unmarshal(result.FailureDescription, &description) == nil {
		meta["failure-description"] = description
	}
	return meta
}

func renderText(w io.Writer, value response) error {
	if value.Meta == nil {
		return nil
	}
	encoded, err := yamlutil.Marshal(value.Meta)
	if err != nil {
		return err
	}
	_, err = w.Write(encoded)
	return err
}
