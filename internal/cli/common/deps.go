package common

import (
	"github.com/crmarques/jbossctl/config"
	"github.com/crmarques/jbossctl/core"
)

type CommandDependencies struct {
	Contexts config.ContextService
	Sessions core.SessionOpener
}

func RequireContexts(deps CommandDependencies) (config.ContextService, error) {
	if deps.Contexts == nil {
		return nil, ValidationError("context service is not configured", nil)
	}
	return deps.Contexts, nil
}

func RequireSessions(deps CommandDependencies) (core.SessionOpener, error) {
	if deps.Sessions == nil {
		return nil, ValidationError("management session opener is not configured", nil)
	}
	return deps.Sessions, nil
}
