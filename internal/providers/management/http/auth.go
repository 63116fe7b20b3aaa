package http

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/crmarques/jbossctl/config"
	"github.com/icholy/digest"
)

type authConfig struct {
	mode     string
	username string
	password string
}

func buildAuthConfig(auth *config.Auth) (authConfig, error) {
	credentials, mode := auth.Credentials()
	if credentials == nil {
		return authConfig{}, nil
	}
	if strings.TrimSpace(credentials.Username) == "" {
		return authConfig{}, validationError(fmt.Sprintf("server.auth.%s.username is required", mode), nil)
	}

	password := credentials.Password
	if passwordFile := strings.TrimSpace(credentials.PasswordFile); passwordFile != "" {
		data, err := os.ReadFile(passwordFile)
		if err != nil {
			return authConfig{}, validationError(fmt.Sprintf("server.auth.%s.password-file could not be read", mode), err)
		}
		password = strings.TrimRight(string(data), "\r\n")
	}

	return authConfig{
		mode:     mode,
		username: credentials.Username,
		password: password,
	}, nil
}

// wrapTransport installs the digest challenge handler. Basic credentials are
// set per request in applyAuth.
func (a authConfig) wrapTransport(base http.RoundTripper) http.RoundTripper {
	if a.mode != config.AuthModeDigest {
		return base
	}
	return &digest.Transport{
		Username:  a.username,
		Password:  a.password,
		Transport: base,
	}
}

func (a authConfig) applyAuth(request *http.Request) {
	if a.mode == config.AuthModeBasic {
		request.SetBasicAuth(a.username, a.password)
	}
}

func (a authConfig) describe() string {
	if a.mode == "" {
		return "none"
	}
	return a.mode
}
