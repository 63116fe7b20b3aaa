package config

import (
	"fmt"
	"strconv"
	"strings"

	configdomain "github.com/crmarques/jbossctl/config"
	"github.com/crmarques/jbossctl/internal/cli/common"
	"github.com/spf13/cobra"
)

const noAuthentication = "none"

// connectionFlags are the global flags that describe a context on their own.
var connectionFlags = []string{"host", "port", "scheme", "timeout", "username", "password", "auth"}

func shouldUseInteractiveCreate(command *cobra.Command, input common.InputFlags, passwordFile string, prompter configPrompter) bool {
	if strings.TrimSpace(input.Payload) != "" || passwordFile != "" {
		return false
	}
	for _, name := range connectionFlags {
		if command.Flags().Changed(name) {
			return false
		}
	}
	return prompter.IsInteractive(command)
}

func promptCreateContext(command *cobra.Command, prompter configPrompter, contextName string) (configdomain.Context, error) {
	name := strings.TrimSpace(contextName)
	if name == "" {
		var err error
		name, err = prompter.Input(command, "Context name: ", true)
		if err != nil {
			return configdomain.Context{}, err
		}
	}

	host, err := promptWithDefault(command, prompter, "Host", configdomain.DefaultHost)
	if err != nil {
		return configdomain.Context{}, err
	}
	portValue, err := promptWithDefault(command, prompter, "Port", strconv.Itoa(configdomain.DefaultPort))
	if err != nil {
		return configdomain.Context{}, err
	}
	port, err := strconv.Atoi(portValue)
	if err != nil || port <= 0 || port > 65535 {
		return configdomain.Context{}, common.ValidationError(fmt.Sprintf("invalid port %q", portValue), err)
	}
	scheme, err := prompter.Select(command, "Select scheme", []string{configdomain.SchemeHTTP, configdomain.SchemeHTTPS})
	if err != nil {
		return configdomain.Context{}, err
	}

	cfg := configdomain.Context{
		Name: name,
		Server: configdomain.Server{
			Host:   host,
			Port:   port,
			Scheme: scheme,
		},
	}

	mode, err := prompter.Select(
		command,
		"Select authentication mode",
		[]string{configdomain.AuthModeDigest, configdomain.AuthModeBasic, noAuthentication},
	)
	if err != nil {
		return configdomain.Context{}, err
	}
	if mode == noAuthentication {
		return cfg, nil
	}

	credentials, err := promptCredentials(command, prompter)
	if err != nil {
		return configdomain.Context{}, err
	}
	if mode == configdomain.AuthModeBasic {
		cfg.Server.Auth = &configdomain.Auth{Basic: credentials}
	} else {
		cfg.Server.Auth = &configdomain.Auth{Digest: credentials}
	}
	return cfg, nil
}

func promptCredentials(command *cobra.Command, prompter configPrompter) (*configdomain.Credentials, error) {
	username, err := prompter.Input(command, "Username: ", true)
	if err != nil {
		return nil, err
	}
	passwordFile, err := prompter.Input(command, "Password file (empty to store the password in the catalog): ", false)
	if err != nil {
		return nil, err
	}
	if passwordFile != "" {
		return &configdomain.Credentials{Username: username, PasswordFile: passwordFile}, nil
	}

	password, err := prompter.Password(command, "Management password: ")
	if err != nil {
		return nil, err
	}
	return &configdomain.Credentials{Username: username, Password: password}, nil
}

func promptWithDefault(command *cobra.Command, prompter configPrompter, label string, fallback string) (string, error) {
	value, err := prompter.Input(command, fmt.Sprintf("%s (defaults to %s): ", label, fallback), false)
	if err != nil {
		return "", err
	}
	if value = strings.TrimSpace(value); value == "" {
		return fallback, nil
	}
	return value, nil
}

func selectContextForAction(
	command *cobra.Command,
	contexts configdomain.ContextService,
	prompter configPrompter,
	actionLabel string,
) (string, error) {
	items, err := contexts.List(command.Context())
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", common.ValidationError("no contexts available", nil)
	}
	if !prompter.IsInteractive(command) {
		return "", common.ValidationError(fmt.Sprintf("context name is required: jbossctl config %s <name>", actionLabel), nil)
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return prompter.Select(command, "Select context", names)
}
