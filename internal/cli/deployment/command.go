package deployment

import (
	"github.com/crmarques/jbossctl/checksum"
	"github.com/crmarques/jbossctl/debugctx"
	"github.com/crmarques/jbossctl/internal/cli/common"
	"github.com/crmarques/jbossctl/management"
	"github.com/crmarques/jbossctl/reconciler"
	"github.com/spf13/cobra"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "deployment",
		Short: "Reconcile deployments",
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
	var name string
	var source string
	var remote bool

	command := &cobra.Command{
		Use:   "apply [name]",
		Short: "Ensure a deployment exists with the content of an artifact",
		Example: "  jbossctl deployment apply hawtio.war --src ./hawtio.war\n" +
			"  jbossctl deployment apply app.war --src /opt/artifacts/app.war --remote",
		Args: cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			target, err := common.ResolveTarget(args, name, "deployment name")
			if err != nil {
				return err
			}
			if source == "" {
				return common.ValidationError("flag --src is required", nil)
			}
			deploymentReconciler, err := newReconciler(command, deps, globalFlags)
			if err != nil {
				return err
			}

			desired := reconciler.DeploymentPresent{Source: reconciler.Source{Path: source, Remote: remote}}
			outcome, err := deploymentReconciler.Apply(command.Context(), target, desired)
			if err != nil {
				return err
			}
			return common.WriteOutcome(command, globalFlags, outcome)
		},
	}

	command.Flags().StringVar(&name, "name", "", "deployment name")
	command.Flags().StringVar(&source, "src", "", "artifact path")
	command.Flags().BoolVar(&remote, "remote", false, "the artifact path is on the managed host")
	return command
}

func newRemoveCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var name string

	command := &cobra.Command{
		Use:   "remove [name]",
		Short: "Ensure a deployment is undeployed and removed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			target, err := common.ResolveTarget(args, name, "deployment name")
			if err != nil {
				return err
			}
			deploymentReconciler, err := newReconciler(command, deps, globalFlags)
			if err != nil {
				return err
			}
			outcome, err := deploymentReconciler.Apply(command.Context(), target, reconciler.Absent{})
			if err != nil {
				return err
			}
			return common.WriteOutcome(command, globalFlags, outcome)
		},
	}

	command.Flags().StringVar(&name, "name", "", "deployment name")
	return command
}

type deploymentInfo struct {
	Name        string `json:"name" yaml:"name"`
	RuntimeName string `json:"runtime-name,omitempty" yaml:"runtime-name,omitempty"`
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	Checksum    string `json:"checksum,omitempty" yaml:"checksum,omitempty"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
	Path        string `json:"path,omitempty" yaml:"path,omitempty"`
	Archive     *bool  `json:"archive,omitempty" yaml:"archive,omitempty"`
}

func newReadCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var name string

	command := &cobra.Command{
		Use:   "read [name]",
		Short: "Print a deployment and its content checksum",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			target, err := common.ResolveTarget(args, name, "deployment name")
			if err != nil {
				return err
			}
			deploymentReconciler, err := newReconciler(command, deps, globalFlags)
			if err != nil {
				return err
			}

			record, exists, err := deploymentReconciler.Read(command.Context(), target)
			if err != nil {
				return err
			}
			if !exists {
				return common.NotFoundError("deployment " + target + " does not exist")
			}

			info, err := newDeploymentInfo(record)
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.Output, info, common.RenderYAMLText[deploymentInfo])
		},
	}

	command.Flags().StringVar(&name, "name", "", "deployment name")
	return command
}

func newDeploymentInfo(record management.DeploymentRecord) (deploymentInfo, error) {
	info := deploymentInfo{
		Name:        record.Name,
		RuntimeName: record.RuntimeName,
		Enabled:     record.Enabled,
	}
	if len(record.Content) == 0 {
		return info, nil
	}

	content := record.Content[0]
	info.URL = content.URL
	info.Path = content.Path
	info.Archive = content.Archive
	if content.Hash != nil {
		sum, err := checksum.DecodeServerHash(*content.Hash)
		if err != nil {
			return deploymentInfo{}, err
		}
		info.Checksum = sum
	}
	return info, nil
}

func newReconciler(command *cobra.Command, deps common.CommandDependencies, globalFlags *common.GlobalFlags) (*reconciler.DeploymentReconciler, error) {
	session, err := common.OpenSession(command.Context(), command, deps, globalFlags)
	if err != nil {
		return nil, err
	}
	return &reconciler.DeploymentReconciler{
		Client:    session.Client,
		CheckMode: globalFlags.Check,
		Logger:    debugctx.Logger(command.Context()),
	}, nil
}
