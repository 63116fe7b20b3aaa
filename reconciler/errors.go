package reconciler

import (
	"context"
	"fmt"

	"github.com/crmarques/jbossctl/debugctx"
	"github.com/crmarques/jbossctl/faults"
	"github.com/crmarques/jbossctl/management"
	"github.com/go-logr/logr"
)

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func artifactError(message string, cause error) error {
	return faults.NewTypedError(faults.ArtifactError, message, cause)
}

func unsupportedStateError(desired DesiredState) error {
	return validationError(fmt.Sprintf("unsupported desired state %T", desired), nil)
}

// write executes operation and turns a rejected outcome into an
// OperationError carrying the server's failure description.
func write(ctx context.Context, client management.Client, operation management.Operation) (management.Result, error) {
	result, err := client.Execute(ctx, operation)
	if err != nil {
		return management.Result{}, err
	}
	if !result.Succeeded() {
		return result, management.OperationError(operation, result)
	}
	return result, nil
}

func loggerFor(ctx context.Context, logger logr.Logger) logr.Logger {
	if logger.GetSink() != nil {
		return logger
	}
	return debugctx.Logger(ctx)
}
