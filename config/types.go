package config

type ContextSelection struct {
	Name      string
	Overrides map[string]string
}

const (
	ContextFileEnvVar         = "JBOSSCTL_CONTEXTS_FILE"
	DefaultContextCatalogPath = "~/.jbossctl/contexts.yaml"
	DefaultContextName        = "default"

	DefaultHost    = "127.0.0.1"
	DefaultPort    = 9990
	DefaultScheme  = "http"
	DefaultTimeout = "60s"

	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
)

// Override keys accepted in ContextSelection.Overrides.
const (
	OverrideHost         = "server.host"
	OverridePort         = "server.port"
	OverrideScheme       = "server.scheme"
	OverrideTimeout      = "server.timeout"
	OverrideUsername     = "server.auth.username"
	OverridePassword     = "server.auth.password"
	OverridePasswordFile = "server.auth.password-file"
	OverrideAuthMode     = "server.auth.mode"
)

// Environment variables mapped onto override keys.
const (
	HostEnvVar     = "JBOSSCTL_HOST"
	PortEnvVar     = "JBOSSCTL_PORT"
	SchemeEnvVar   = "JBOSSCTL_SCHEME"
	UsernameEnvVar = "JBOSSCTL_USERNAME"
	PasswordEnvVar = "JBOSSCTL_PASSWORD"
)

const (
	AuthModeDigest = "digest"
	AuthModeBasic  = "basic"
)

type ContextCatalog struct {
	Contexts   []Context `json:"contexts" yaml:"contexts"`
	CurrentCtx string    `json:"current-ctx" yaml:"current-ctx"`
}

type Context struct {
	Name   string `json:"name" yaml:"name"`
	Server Server `json:"server" yaml:"server"`
}

type Server struct {
	Host    string `json:"host,omitempty" yaml:"host,omitempty"`
	Port    int    `json:"port,omitempty" yaml:"port,omitempty"`
	Scheme  string `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Auth    *Auth  `json:"auth,omitempty" yaml:"auth,omitempty"`
	TLS     *TLS   `json:"tls,omitempty" yaml:"tls,omitempty"`
}

// Auth selects how the management endpoint authenticates. WildFly's HTTP
// management interface uses digest by default; basic is for endpoints
// fronted by a proxy.
type Auth struct {
	Digest *Credentials `json:"digest,omitempty" yaml:"digest,omitempty"`
	Basic  *Credentials `json:"basic,omitempty" yaml:"basic,omitempty"`
}

type Credentials struct {
	Username     string `json:"username" yaml:"username"`
	Password     string `json:"password,omitempty" yaml:"password,omitempty"`
	PasswordFile string `json:"password-file,omitempty" yaml:"password-file,omitempty"`
}

type TLS struct {
	CACertFile         string `json:"ca-cert-file,omitempty" yaml:"ca-cert-file,omitempty"`
	ClientCertFile     string `json:"client-cert-file,omitempty" yaml:"client-cert-file,omitempty"`
	ClientKeyFile      string `json:"client-key-file,omitempty" yaml:"client-key-file,omitempty"`
	InsecureSkipVerify bool   `json:"insecure-skip-verify,omitempty" yaml:"insecure-skip-verify,omitempty"`
}

func (a *Auth) Credentials() (*Credentials, string) {
	if a == nil {
		return nil, ""
	}
	if a.Digest != nil {
		return a.Digest, AuthModeDigest
	}
	if a.Basic != nil {
		return a.Basic, AuthModeBasic
	}
	return nil, ""
}
