package common

import (
	"strings"

	"github.com/spf13/cobra"
)

// RegisterContextFlagCompletion completes --context with stored context names.
func RegisterContextFlagCompletion(command *cobra.Command, deps CommandDependencies) {
	_ = command.RegisterFlagCompletionFunc("context", func(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return contextNames(cmd, deps, toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

// ContextArgCompletion completes a single positional context name.
func ContextArgCompletion(deps CommandDependencies) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return contextNames(cmd, deps, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

func contextNames(cmd *cobra.Command, deps CommandDependencies, prefix string) []string {
	if deps.Contexts == nil {
		return nil
	}
	items, err := deps.Contexts.List(cmd.Context())
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		if strings.HasPrefix(item.Name, prefix) {
			names = append(names, item.Name)
		}
	}
	return names
}
