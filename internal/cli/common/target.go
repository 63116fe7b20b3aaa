package common

import (
	"fmt"
	"strings"
)

// ResolveTarget picks the positional argument or the flag value, rejecting
// conflicting values.
func ResolveTarget(args []string, flagValue string, label string) (string, error) {
	positional := ""
	if len(args) > 0 {
		positional = strings.TrimSpace(args[0])
	}
	flagged := strings.TrimSpace(flagValue)

	switch {
	case positional != "" && flagged != "" && positional != flagged:
		return "", ValidationError(fmt.Sprintf("%s conflict: positional %q differs from flag %q", label, positional, flagged), nil)
	case positional != "":
		return positional, nil
	case flagged != "":
		return flagged, nil
	default:
		return "", ValidationError(label+" is required", nil)
	}
}
