package common

import (
	"fmt"
	"io"

	"github.com/crmarques/jbossctl/reconciler"
	"github.com/crmarques/jbossctl/yamlutil"
	"github.com/spf13/cobra"
)

// WriteOutcome prints a reconciliation outcome. Text output is a short
// summary; with --verbose the meta payload follows it.
func WriteOutcome(command *cobra.Command, flags *GlobalFlags, outcome reconciler.Outcome) error {
	format := OutputAuto
	verbose := false
	check := false
	if flags != nil {
		format = flags.Output
		verbose = IsVerbose(flags)
		check = flags.Check
	}
	return WriteOutput(command, format, outcome, func(w io.Writer, value reconciler.Outcome) error {
		return renderOutcomeText(w, value, verbose, check)
	})
}

func renderOutcomeText(w io.Writer, outcome reconciler.Outcome, verbose bool, check bool) error {
	status := "unchanged"
	if outcome.Changed {
		status = "changed"
		if check {
			status = "would change"
		}
	}
	line := status
	if outcome.Msg != "" {
		line += ": " + outcome.Msg
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}

	if outcome.Diff != nil {
		encoded, err := yamlutil.Marshal(outcome.Diff)
		if err != nil {
			return err
		}
		if _, err := w.Write(encoded); err != nil {
			return err
		}
	}
	if verbose && outcome.Meta != nil {
		encoded, err := yamlutil.Marshal(map[string]any{"meta": outcome.Meta})
		if err != nil {
			return err
		}
		if _, err := w.Write(encoded); err != nil {
			return err
		}
	}
	return nil
}
