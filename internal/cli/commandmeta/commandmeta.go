package commandmeta

import "strings"

type OutputPolicy uint8

const (
	OutputPolicyStructured OutputPolicy = iota
	OutputPolicyTextOnly
)

// EmitsExecutionStatusPath reports whether a command prints the trailing
// [OK]/[ERROR] status line.
func EmitsExecutionStatusPath(path string) bool {
	switch strings.TrimSpace(path) {
	case "jbossctl resource apply",
		"jbossctl resource remove",
		"jbossctl deployment apply",
		"jbossctl deployment remove",
		"jbossctl request",
		"jbossctl config add",
		"jbossctl config use",
		"jbossctl config delete":
		return true
	default:
		return false
	}
}

func OutputPolicyForPath(path string) OutputPolicy {
	switch strings.TrimSpace(path) {
	case "jbossctl completion bash",
		"jbossctl completion zsh",
		"jbossctl completion fish",
		"jbossctl completion powershell":
		return OutputPolicyTextOnly
	default:
		return OutputPolicyStructured
	}
}

// RequiresSessionPath reports whether a command talks to the management
// endpoint.
func RequiresSessionPath(path string) bool {
	normalized := strings.TrimSpace(path)
	switch {
	case strings.HasPrefix(normalized, "jbossctl resource "),
		strings.HasPrefix(normalized, "jbossctl deployment "),
		normalized == "jbossctl request":
		return true
	}
	return false
}
