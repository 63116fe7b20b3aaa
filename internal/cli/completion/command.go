package completion

import (
	"bytes"

	"github.com/spf13/cobra"
)

var (
	zshCompletionAppendPattern = []byte(`completions+=${comp}`)
	zshCompletionAppendQuoted  = []byte(`completions+=("${comp}")`)
	zshEvalRequestPattern      = []byte(`out=$(eval ${requestComp} 2>/dev/null)`)
	zshEvalRequestQuoted       = []byte(`out=$(eval "${requestComp}" 2>/dev/null)`)
)

func NewCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Args:  cobra.NoArgs,
	}
	command.AddCommand(
		&cobra.Command{
			Use:   "bash",
			Short: "Generate Bash completion",
			Args:  cobra.NoArgs,
			RunE: func(command *cobra.Command, _ []string) error {
				return command.Root().GenBashCompletionV2(command.OutOrStdout(), true)
			},
		},
		&cobra.Command{
			Use:   "zsh",
			Short: "Generate Zsh completion",
			Args:  cobra.NoArgs,
			RunE: func(command *cobra.Command, _ []string) error {
				buffer := &bytes.Buffer{}
				if err := command.Root().GenZshCompletion(buffer); err != nil {
					return err
				}
				_, err := command.OutOrStdout().Write(normalizeZshCompletion(buffer.Bytes()))
				return err
			},
		},
		&cobra.Command{
			Use:   "fish",
			Short: "Generate Fish completion",
			Args:  cobra.NoArgs,
			RunE: func(command *cobra.Command, _ []string) error {
				return command.Root().GenFishCompletion(command.OutOrStdout(), true)
			},
		},
		&cobra.Command{
			Use:   "powershell",
			Short: "Generate PowerShell completion",
			Args:  cobra.NoArgs,
			RunE: func(command *cobra.Command, _ []string) error {
				return command.Root().GenPowerShellCompletionWithDesc(command.OutOrStdout())
			},
		},
	)

	return command
}

// normalizeZshCompletion quotes completion items so values with spaces stay
// one token.
func normalizeZshCompletion(script []byte) []byte {
	normalized := bytes.ReplaceAll(script, zshCompletionAppendPattern, zshCompletionAppendQuoted)
	normalized = bytes.ReplaceAll(normalized, zshEvalRequestPattern, zshEvalRequestQuoted)
	return normalized
}
