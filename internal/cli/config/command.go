package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	configdomain "github.com/crmarques/jbossctl/config"
	"github.com/crmarques/jbossctl/internal/cli/common"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

const redacted = "********"

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return newCommandWithPrompter(deps, globalFlags, terminalPrompter{})
}

func newCommandWithPrompter(
	deps common.CommandDependencies,
	globalFlags *common.GlobalFlags,
	prompter configPrompter,
) *cobra.Command {
	command := &cobra.Command{
		Use:   "config",
		Short: "Manage connection contexts",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newListCommand(deps, globalFlags),
		newCurrentCommand(deps, globalFlags),
		newShowCommand(deps, globalFlags),
		newResolveCommand(deps, globalFlags),
		newAddCommand(deps, globalFlags, prompter),
		newUseCommand(deps, prompter),
		newDeleteCommand(deps, prompter),
		newValidateCommand(deps),
	)

	return command
}

func newListCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List contexts",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			items, err := contexts.List(command.Context())
			if err != nil {
				return err
			}
			names := make([]string, 0, len(items))
			for _, item := range items {
				names = append(names, item.Name)
			}
			return common.WriteOutput(command, globalFlags.Output, names, func(w io.Writer, value []string) error {
				for _, name := range value {
					if _, writeErr := fmt.Fprintln(w, name); writeErr != nil {
						return writeErr
					}
				}
				return nil
			})
		},
	}
}

func newCurrentCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Get current context",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			current, err := contexts.GetCurrent(command.Context())
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.Output, current.Name, func(w io.Writer, value string) error {
				_, writeErr := fmt.Fprintln(w, value)
				return writeErr
			})
		},
	}
}

func newShowCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "show [name]",
		ValidArgsFunction: common.ContextArgCompletion(deps),
		Short:             "Show a stored context with secrets redacted",
		Args:              cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}

			name := strings.TrimSpace(globalFlags.Context)
			if len(args) > 0 {
				name = args[0]
			}

			var shown configdomain.Context
			if name == "" {
				shown, err = contexts.GetCurrent(command.Context())
			} else {
				shown, err = findContext(command, contexts, name)
			}
			if err != nil {
				return err
			}

			return common.WriteOutput(command, outputOrYAML(globalFlags.Output), redact(shown), nil)
		},
	}
}

func newResolveCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the effective context with environment and flag overrides",
		Example: strings.Join([]string{
			"  jbossctl config resolve",
			"  jbossctl config resolve --context prod --port 19990",
		}, "\n"),
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			selection, err := common.ContextSelection(command, globalFlags)
			if err != nil {
				return err
			}
			resolved, err := contexts.ResolveContext(command.Context(), selection)
			if err != nil {
				return err
			}
			return common.WriteOutput(command, outputOrYAML(globalFlags.Output), redact(resolved), nil)
		},
	}
}

func newAddCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags, prompter configPrompter) *cobra.Command {
	var input common.InputFlags
	var passwordFile string
	var setCurrent bool

	command := &cobra.Command{
		Use:   "add [name]",
		Short: "Store a context from a file, the connection flags, or interactively",
		Example: strings.Join([]string{
			"  jbossctl config add local --host 127.0.0.1 --port 9990 -u admin --password-file ~/.jbossctl/admin.pass",
			"  jbossctl config add prod -f prod-context.yaml --use",
			"  jbossctl config add",
		}, "\n"),
		Args: cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}

			name := ""
			if len(args) > 0 {
				name = strings.TrimSpace(args[0])
			}

			var cfg configdomain.Context
			interactive := shouldUseInteractiveCreate(command, input, passwordFile, prompter)
			switch {
			case interactive:
				cfg, err = promptCreateContext(command, prompter, name)
				if err != nil {
					return err
				}
				name = cfg.Name
			case strings.TrimSpace(input.Payload) != "":
				cfg, err = decodeContextStrict(command, input)
				if err != nil {
					return err
				}
			default:
				cfg, err = contextFromFlags(command, globalFlags, passwordFile)
				if err != nil {
					return err
				}
			}

			if name == "" {
				name = cfg.Name
			}
			if name == "" {
				return common.ValidationError("context name is required: jbossctl config add <name>", nil)
			}
			if cfg.Name != "" && cfg.Name != name {
				return common.ValidationError(fmt.Sprintf("context name %q does not match argument %q", cfg.Name, name), nil)
			}
			cfg.Name = name

			if err := contexts.Create(command.Context(), cfg); err != nil {
				return err
			}
			if !setCurrent && interactive {
				setCurrent, err = prompter.Confirm(command, fmt.Sprintf("Use context %q now?", name), false)
				if err != nil {
					return err
				}
			}
			if setCurrent {
				return contexts.SetCurrent(command.Context(), cfg.Name)
			}
			return nil
		},
	}

	common.BindInputFlags(command, &input, "file", "context file")
	command.Flags().StringVar(&passwordFile, "password-file", "", "file holding the management password")
	command.Flags().BoolVar(&setCurrent, "use", false, "make the new context current")
	return command
}

func newUseCommand(deps common.CommandDependencies, prompter configPrompter) *cobra.Command {
	return &cobra.Command{
		Use:               "use [name]",
		ValidArgsFunction: common.ContextArgCompletion(deps),
		Short:             "Set current context (interactive when name is omitted)",
		Args:              cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}

			name := ""
			if len(args) > 0 {
				name = args[0]
			} else {
				name, err = selectContextForAction(command, contexts, prompter, "use")
				if err != nil {
					return err
				}
			}
			return contexts.SetCurrent(command.Context(), name)
		},
	}
}

func newDeleteCommand(deps common.CommandDependencies, prompter configPrompter) *cobra.Command {
	return &cobra.Command{
		Use:               "delete [name]",
		ValidArgsFunction: common.ContextArgCompletion(deps),
		Short:             "Delete a context (interactive when name is omitted)",
		Args:              cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}

			name := ""
			if len(args) > 0 {
				name = args[0]
			} else {
				selected, err := selectContextForAction(command, contexts, prompter, "delete")
				if err != nil {
					return err
				}
				confirmed, err := prompter.Confirm(command, fmt.Sprintf("Delete context %q?", selected), false)
				if err != nil {
					return err
				}
				if !confirmed {
					_, err = fmt.Fprintln(command.OutOrStdout(), "delete canceled")
					return err
				}
				name = selected
			}
			return contexts.Delete(command.Context(), name)
		},
	}
}

func newValidateCommand(deps common.CommandDependencies) *cobra.Command {
	var input common.InputFlags

	command := &cobra.Command{
		Use:   "validate",
		Short: "Validate a context from input",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			cfg, err := decodeContextStrict(command, input)
			if err != nil {
				return err
			}
			return contexts.Validate(command.Context(), cfg)
		},
	}

	common.BindInputFlags(command, &input, "file", "context file")
	return command
}

func findContext(command *cobra.Command, contexts configdomain.ContextService, name string) (configdomain.Context, error) {
	items, err := contexts.List(command.Context())
	if err != nil {
		return configdomain.Context{}, err
	}
	for _, item := range items {
		if item.Name == name {
			return item, nil
		}
	}
	return configdomain.Context{}, common.NotFoundError(fmt.Sprintf("context %q not found", name))
}

func contextFromFlags(command *cobra.Command, globalFlags *common.GlobalFlags, passwordFile string) (configdomain.Context, error) {
	cfg := configdomain.Context{
		Server: configdomain.Server{
			Host:    globalFlags.Host,
			Port:    globalFlags.Port,
			Scheme:  globalFlags.Scheme,
			Timeout: globalFlags.Timeout,
		},
	}

	username := strings.TrimSpace(globalFlags.Username)
	if username == "" {
		if command.Flags().Changed("password") || passwordFile != "" {
			return configdomain.Context{}, common.ValidationError("a password requires --username", nil)
		}
		return cfg, nil
	}
	if command.Flags().Changed("password") && passwordFile != "" {
		return configdomain.Context{}, common.ValidationError("flag --password and --password-file are mutually exclusive", nil)
	}

	credentials := &configdomain.Credentials{
		Username:     username,
		Password:     globalFlags.Password,
		PasswordFile: passwordFile,
	}
	switch strings.TrimSpace(globalFlags.AuthMode) {
	case "", configdomain.AuthModeDigest:
		cfg.Server.Auth = &configdomain.Auth{Digest: credentials}
	case configdomain.AuthModeBasic:
		cfg.Server.Auth = &configdomain.Auth{Basic: credentials}
	default:
		return configdomain.Context{}, common.ValidationError("invalid auth mode: use digest or basic", nil)
	}
	return cfg, nil
}

func decodeContextStrict(command *cobra.Command, input common.InputFlags) (configdomain.Context, error) {
	data, err := common.ReadInput(command, input)
	if err != nil {
		return configdomain.Context{}, err
	}
	if len(data) == 0 {
		return configdomain.Context{}, common.ValidationError("context input is required", nil)
	}

	var output configdomain.Context
	switch input.Format {
	case common.OutputJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&output); err != nil {
			return configdomain.Context{}, common.ValidationError("invalid json input", err)
		}
	case "", common.OutputYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&output); err != nil && !errors.Is(err, io.EOF) {
			return configdomain.Context{}, common.ValidationError("invalid yaml input", err)
		}
	default:
		return configdomain.Context{}, common.ValidationError("invalid input format: use json or yaml", nil)
	}
	return output, nil
}

func redact(cfg configdomain.Context) configdomain.Context {
	if cfg.Server.Auth == nil {
		return cfg
	}
	auth := *cfg.Server.Auth
	for _, credentials := range []**configdomain.Credentials{&auth.Digest, &auth.Basic} {
		if *credentials == nil || (*credentials).Password == "" {
			continue
		}
		copied := **credentials
		copied.Password = redacted
		*credentials = &copied
	}
	cfg.Server.Auth = &auth
	return cfg
}

func outputOrYAML(format string) string {
	switch strings.TrimSpace(format) {
	case "", common.OutputAuto, common.OutputText:
		return common.OutputYAML
	default:
		return format
	}
}
