package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/crmarques/jbossctl/config"
	"github.com/crmarques/jbossctl/core"
	"github.com/crmarques/jbossctl/faults"
	"github.com/crmarques/jbossctl/internal/cli/commandmeta"
	"github.com/crmarques/jbossctl/internal/cli/common"
	"github.com/crmarques/jbossctl/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type Dependencies struct {
	Contexts config.ContextService
	Sessions core.SessionOpener
	// Metrics is written to --metrics-file after the command finishes.
	Metrics prometheus.Gatherer
}

func (d Dependencies) commandDependencies() common.CommandDependencies {
	return common.CommandDependencies{
		Contexts: d.Contexts,
		Sessions: d.Sessions,
	}
}

func Execute(deps Dependencies) error {
	return execute(NewRootCommand(deps), deps, os.Args[1:])
}

func execute(root *cobra.Command, deps Dependencies, args []string) error {
	root.SetArgs(args)
	command, err := root.ExecuteC()
	if metricsErr := writeMetrics(root, deps.Metrics); metricsErr != nil && err == nil {
		err = metricsErr
	}
	emitStatus := shouldEmitExecutionStatus(args, command)

	if err != nil {
		if emitStatus {
			writeExecutionErrorStatus(root.ErrOrStderr(), err)
		} else {
			_, _ = fmt.Fprintln(root.ErrOrStderr(), strings.TrimSpace(err.Error()))
		}
		return err
	}
	if emitStatus {
		writeExecutionOKStatus(root.ErrOrStderr())
	}
	return nil
}

func writeMetrics(root *cobra.Command, gatherer prometheus.Gatherer) error {
	if gatherer == nil {
		return nil
	}
	path, err := root.PersistentFlags().GetString("metrics-file")
	if err != nil || strings.TrimSpace(path) == "" {
		return nil
	}
	return telemetry.WriteMetricsFile(path, gatherer)
}

func ExitCodeForError(err error) int {
	if err == nil {
		return 0
	}

	var typedErr *faults.TypedError
	if !errors.As(err, &typedErr) {
		return 1
	}

	switch typedErr.Category {
	case faults.ValidationError, faults.MalformedPathError:
		return 2
	case faults.NotFoundError:
		return 3
	case faults.AuthError:
		return 4
	case faults.OperationError:
		return 5
	case faults.TransportError:
		return 6
	case faults.ArtifactError:
		return 7
	default:
		return 1
	}
}

func writeExecutionOKStatus(w io.Writer) {
	_, _ = fmt.Fprintf(w, "%s command executed successfully.\n", formatStatusLabel(w, "OK"))
}

func writeExecutionErrorStatus(w io.Writer, err error) {
	description := "command execution failed"
	if err != nil {
		description = fmt.Sprintf("%s: %s", description, strings.TrimSpace(err.Error()))
	}
	_, _ = fmt.Fprintf(w, "%s %s.\n", formatStatusLabel(w, "ERROR"), description)
}

func formatStatusLabel(w io.Writer, status string) string {
	label := fmt.Sprintf("[%s]", strings.TrimSpace(status))
	if !supportsANSIStatus(w) {
		return label
	}

	switch strings.TrimSpace(status) {
	case "OK":
		return "\x1b[1;32m" + label + "\x1b[0m"
	case "ERROR":
		return "\x1b[1;31m" + label + "\x1b[0m"
	default:
		return label
	}
}

func supportsANSIStatus(w io.Writer) bool {
	if shouldSuppressColor(os.Args[1:]) {
		return false
	}

	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	info, err := file.Stat()
	if err != nil || info == nil {
		return false
	}
	if (info.Mode() & os.ModeCharDevice) == 0 {
		return false
	}

	term := strings.TrimSpace(strings.ToLower(os.Getenv("TERM")))
	return term != "" && term != "dumb"
}

func shouldSuppressColor(args []string) bool {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		return true
	}
	return hasBoolArgToken(args, "--no-color", "")
}

func shouldEmitExecutionStatus(args []string, command *cobra.Command) bool {
	if shouldSuppressStatusMessage(args) {
		return false
	}
	if isHelpOrCompletionInvocation(args) {
		return false
	}
	if command == nil {
		return false
	}
	return commandmeta.EmitsExecutionStatusPath(strings.TrimSpace(command.CommandPath()))
}

func shouldSuppressStatusMessage(args []string) bool {
	flags := pflag.NewFlagSet("status", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.SetOutput(io.Discard)

	var noStatus bool
	flags.BoolVarP(&noStatus, "no-status", "n", false, "hide status output")
	if err := flags.Parse(args); err != nil {
		return hasBoolArgToken(args, "--no-status", "-n")
	}
	return noStatus
}

func isHelpOrCompletionInvocation(args []string) bool {
	if len(args) == 0 {
		return true
	}
	switch args[0] {
	case "help", "completion", "__complete", "__completeNoDesc":
		return true
	}

	for _, current := range args {
		if current == "--" {
			break
		}
		if current == "--help" || current == "-h" {
			return true
		}
	}
	return false
}

func hasBoolArgToken(args []string, long string, short string) bool {
	for _, current := range args {
		if current == long || (short != "" && current == short) {
			return true
		}
		if strings.HasPrefix(current, long+"=") {
			return strings.TrimSpace(strings.TrimPrefix(current, long+"=")) != "false"
		}
	}
	return false
}
