package resource

import (
	"github.com/crmarques/jbossctl/debugctx"
	"github.com/crmarques/jbossctl/internal/cli/common"
	"github.com/crmarques/jbossctl/reconciler"
	"github.com/spf13/cobra"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "resource",
		Short: "Reconcile management model resources",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newApplyCommand(deps, globalFlags),
		newRemoveCommand(deps, globalFlags),
		newReadCommand(deps, globalFlags),
	)

	return command
}

func newApplyCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var input common.InputFlags
	var path string
	var assignments []string

	command := &cobra.Command{
		Use:   "apply [path]",
		Short: "Ensure a resource exists with the given attributes",
		Example: "  jbossctl resource apply /subsystem=datasources/data-source=ExampleDS --set min-pool-size=20\n" +
			"  jbossctl resource apply /system-property=app.env -f attributes.yaml",
		Args: cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			target, err := common.ResolveTarget(args, path, "resource path")
			if err != nil {
				return err
			}
			if globalFlags.PasswordStdin && input.Payload == "-" {
				return common.ValidationError("flag --password-stdin cannot be combined with attributes read from stdin", nil)
			}
			attributes, err := common.DecodeAttributes(command, input, assignments)
			if err != nil {
				return err
			}

			resourceReconciler, err := newReconciler(command, deps, globalFlags)
			if err != nil {
				return err
			}
			outcome, err := resourceReconciler.Apply(command.Context(), target, reconciler.Present{Attributes: attributes})
			if err != nil {
				return err
			}
			return common.WriteOutcome(command, globalFlags, outcome)
		},
	}

	common.BindTargetFlag(command, &path, "path", "resource path, such as /subsystem=datasources/data-source=ExampleDS")
	common.BindInputFlags(command, &input, "attributes", "attribute file")
	command.Flags().StringArrayVar(&assignments, "set", nil, "attribute assignment key=value (repeatable)")
	return command
}

func newRemoveCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var path string

	command := &cobra.Command{
		Use:   "remove [path]",
		Short: "Ensure a resource does not exist",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			target, err := common.ResolveTarget(args, path, "resource path")
			if err != nil {
				return err
			}
			resourceReconciler, err := newReconciler(command, deps, globalFlags)
			if err != nil {
				return err
			}
			outcome, err := resourceReconciler.Apply(command.Context(), target, reconciler.Absent{})
			if err != nil {
				return err
			}
			return common.WriteOutcome(command, globalFlags, outcome)
		},
	}

	common.BindTargetFlag(command, &path, "path", "resource path")
	return command
}

func newReadCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var path string
	var query string

	command := &cobra.Command{
		Use:   "read [path]",
		Short: "Print the current attributes of a resource",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			target, err := common.ResolveTarget(args, path, "resource path")
			if err != nil {
				return err
			}
			resourceReconciler, err := newReconciler(command, deps, globalFlags)
			if err != nil {
				return err
			}

			attributes, exists, err := resourceReconciler.Read(command.Context(), target)
			if err != nil {
				return err
			}
			if !exists {
				return common.NotFoundError("resource " + target + " does not exist")
			}

			value, err := common.ApplyQuery(command.Context(), attributes, query)
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.Output, value, common.RenderYAMLText[any])
		},
	}

	common.BindTargetFlag(command, &path, "path", "resource path")
	command.Flags().StringVarP(&query, "query", "q", "", "jq expression applied to the attributes")
	return command
}

func newReconciler(command *cobra.Command, deps common.CommandDependencies, globalFlags *common.GlobalFlags) (*reconciler.ResourceReconciler, error) {
	session, err := common.OpenSession(command.Context(), command, deps, globalFlags)
	if err != nil {
		return nil, err
	}
	return &reconciler.ResourceReconciler{
		Client:    session.Client,
		CheckMode: globalFlags.Check,
		Logger:    debugctx.Logger(command.Context()),
	}, nil
}
