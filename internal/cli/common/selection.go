package common

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/crmarques/jbossctl/config"
	"github.com/crmarques/jbossctl/core"
	"github.com/spf13/cobra"
)

// ContextSelection translates the connection flags into context overrides.
// Only flags set on the command line override the context and environment.
func ContextSelection(command *cobra.Command, flags *GlobalFlags) (config.ContextSelection, error) {
	if flags == nil {
		return config.ContextSelection{}, nil
	}

	selection := config.ContextSelection{
		Name:      strings.TrimSpace(flags.Context),
		Overrides: map[string]string{},
	}
	set := func(flagName string, key string, value string) {
		if command.Flags().Changed(flagName) {
			selection.Overrides[key] = value
		}
	}
	set("host", config.OverrideHost, flags.Host)
	set("port", config.OverridePort, strconv.Itoa(flags.Port))
	set("scheme", config.OverrideScheme, flags.Scheme)
	set("timeout", config.OverrideTimeout, flags.Timeout)
	set("auth", config.OverrideAuthMode, flags.AuthMode)
	set("username", config.OverrideUsername, flags.Username)
	set("password", config.OverridePassword, flags.Password)

	sources := 0
	for _, used := range []bool{command.Flags().Changed("password"), flags.PasswordStdin, flags.AskPassword} {
		if used {
			sources++
		}
	}
	if sources > 1 {
		return config.ContextSelection{}, ValidationError("flag --password, --password-stdin and --ask-password are mutually exclusive", nil)
	}

	switch {
	case flags.PasswordStdin:
		if IsInteractiveTerminal(command) {
			return config.ContextSelection{}, ValidationError("flag --password-stdin requires piped input; use --ask-password on a terminal", nil)
		}
		password, err := readPasswordLine(command.InOrStdin())
		if err != nil {
			return config.ContextSelection{}, err
		}
		selection.Overrides[config.OverridePassword] = password
	case flags.AskPassword:
		password, err := PromptPassword(command, "Management password: ")
		if err != nil {
			return config.ContextSelection{}, err
		}
		selection.Overrides[config.OverridePassword] = password
	}

	return selection, nil
}

// OpenSession resolves the selected context and returns a client for it.
func OpenSession(ctx context.Context, command *cobra.Command, deps CommandDependencies, flags *GlobalFlags) (core.Session, error) {
	sessions, err := RequireSessions(deps)
	if err != nil {
		return core.Session{}, err
	}
	selection, err := ContextSelection(command, flags)
	if err != nil {
		return core.Session{}, err
	}
	return sessions.Open(ctx, selection)
}

func readPasswordLine(reader io.Reader) (string, error) {
	line, err := bufio.NewReader(reader).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", ValidationError("failed to read password from stdin", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", ValidationError("flag --password-stdin: password value is required", nil)
	}
	return password, nil
}
