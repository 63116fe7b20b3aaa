package file

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/crmarques/jbossctl/config"
)

func validateCatalog(contextCatalog config.ContextCatalog) error {
	if len(contextCatalog.Contexts) == 0 {
		if contextCatalog.CurrentCtx != "" {
			return validationError("current-ctx must be empty when contexts list is empty", nil)
		}
		return nil
	}

	seen := map[string]struct{}{}
	for _, item := range contextCatalog.Contexts {
		if item.Name == "" {
			return validationError("context name must not be empty", nil)
		}
		if _, exists := seen[item.Name]; exists {
			return validationError(fmt.Sprintf("duplicate context name %q", item.Name), nil)
		}
		seen[item.Name] = struct{}{}

		if err := validateConfig(item); err != nil {
			return err
		}
	}

	if contextCatalog.CurrentCtx == "" {
		return validationError("current-ctx must be set when contexts are defined", nil)
	}
	if _, exists := seen[contextCatalog.CurrentCtx]; !exists {
		return validationError(fmt.Sprintf("current-ctx %q does not match any context", contextCatalog.CurrentCtx), nil)
	}

	return nil
}

func validateConfig(cfg config.Context) error {
	cfg = normalizeConfig(cfg)

	if cfg.Name == "" {
		return validationError("context name must not be empty", nil)
	}
	return validateServer(cfg.Server)
}

func validateServer(server config.Server) error {
	switch server.Scheme {
	case "", config.SchemeHTTP, config.SchemeHTTPS:
	default:
		return validationError("server.scheme must be http or https", nil)
	}

	if server.Port < 0 || server.Port > 65535 {
		return validationError(fmt.Sprintf("server.port %d is out of range", server.Port), nil)
	}

	if server.Timeout != "" {
		timeout, err := time.ParseDuration(server.Timeout)
		if err != nil {
			return validationError("server.timeout must be a duration such as 60s", err)
		}
		if timeout < 0 {
			return validationError("server.timeout must not be negative", nil)
		}
	}

	if err := validateAuth(server.Auth); err != nil {
		return err
	}

	if server.TLS != nil {
		if (server.TLS.ClientCertFile == "") != (server.TLS.ClientKeyFile == "") {
			return validationError("server.tls requires both client-cert-file and client-key-file", nil)
		}
	}

	return nil
}

func validateAuth(auth *config.Auth) error {
	if auth == nil {
		return nil
	}
	if auth.Digest != nil && auth.Basic != nil {
		return validationError("server.auth must define exactly one of digest or basic", nil)
	}

	credentials, mode := auth.Credentials()
	if credentials == nil {
		return nil
	}
	if credentials.Username == "" {
		return validationError(fmt.Sprintf("server.auth.%s.username is required", mode), nil)
	}
	if credentials.Password != "" && credentials.PasswordFile != "" {
		return validationError(fmt.Sprintf("server.auth.%s accepts password or password-file, not both", mode), nil)
	}
	return nil
}

func normalizeConfig(cfg config.Context) config.Context {
	cfg.Name = strings.TrimSpace(cfg.Name)
	cfg.Server.Host = strings.TrimSpace(cfg.Server.Host)
	cfg.Server.Scheme = strings.ToLower(strings.TrimSpace(cfg.Server.Scheme))
	cfg.Server.Timeout = strings.TrimSpace(cfg.Server.Timeout)
	return cfg
}

func applyConfigDefaults(cfg config.Context) config.Context {
	cfg = normalizeConfig(cfg)
	if cfg.Server.Host == "" {
		cfg.Server.Host = config.DefaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = config.DefaultPort
	}
	if cfg.Server.Scheme == "" {
		cfg.Server.Scheme = config.DefaultScheme
	}
	if cfg.Server.Timeout == "" {
		cfg.Server.Timeout = config.DefaultTimeout
	}
	return cfg
}

func applyOverrides(cfg config.Context, overrides map[string]string) (config.Context, error) {
	for _, key := range sortedOverrideKeys(overrides) {
		value := overrides[key]
		switch key {
		case config.OverrideHost:
			cfg.Server.Host = value
		case config.OverridePort:
			port, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return config.Context{}, validationError(fmt.Sprintf("override %s must be an integer", key), err)
			}
			cfg.Server.Port = port
		case config.OverrideScheme:
			cfg.Server.Scheme = value
		case config.OverrideTimeout:
			cfg.Server.Timeout = value
		case config.OverrideAuthMode:
			auth, err := switchAuthMode(cfg.Server.Auth, value)
			if err != nil {
				return config.Context{}, err
			}
			cfg.Server.Auth = auth
		case config.OverrideUsername:
			credentialsFor(&cfg.Server).Username = value
		case config.OverridePassword:
			credentials := credentialsFor(&cfg.Server)
			credentials.Password = value
			credentials.PasswordFile = ""
		case config.OverridePasswordFile:
			credentials := credentialsFor(&cfg.Server)
			credentials.PasswordFile = value
			credentials.Password = ""
		default:
			return config.Context{}, unknownOverrideError(key)
		}
	}

	return cfg, nil
}

// credentialsFor returns a copy-on-write credential block of server, creating
// a digest block when none is configured.
func credentialsFor(server *config.Server) *config.Credentials {
	auth := &config.Auth{}
	if server.Auth != nil {
		*auth = *server.Auth
	}
	server.Auth = auth

	switch {
	case auth.Basic != nil:
		cloned := *auth.Basic
		auth.Basic = &cloned
		return auth.Basic
	case auth.Digest != nil:
		cloned := *auth.Digest
		auth.Digest = &cloned
		return auth.Digest
	default:
		auth.Digest = &config.Credentials{}
		return auth.Digest
	}
}

func switchAuthMode(auth *config.Auth, mode string) (*config.Auth, error) {
	var credentials config.Credentials
	if current, _ := auth.Credentials(); current != nil {
		credentials = *current
	}

	switch strings.ToLower(strings.TrimSpace(mode)) {
	case config.AuthModeDigest:
		return &config.Auth{Digest: &credentials}, nil
	case config.AuthModeBasic:
		return &config.Auth{Basic: &credentials}, nil
	default:
		return nil, validationError("server.auth.mode must be digest or basic", nil)
	}
}

func sortedOverrideKeys(overrides map[string]string) []string {
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func envOverrides(lookupEnv func(string) (string, bool)) map[string]string {
	mapping := []struct {
		env string
		key string
	}{
		{env: config.HostEnvVar, key: config.OverrideHost},
		{env: config.PortEnvVar, key: config.OverridePort},
		{env: config.SchemeEnvVar, key: config.OverrideScheme},
		{env: config.UsernameEnvVar, key: config.OverrideUsername},
		{env: config.PasswordEnvVar, key: config.OverridePassword},
	}

	overrides := map[string]string{}
	for _, item := range mapping {
		if value, ok := lookupEnv(item.env); ok && strings.TrimSpace(value) != "" {
			overrides[item.key] = value
		}
	}
	return overrides
}
