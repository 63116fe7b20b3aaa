package core

import (
	"context"

	"github.com/crmarques/jbossctl/config"
	"github.com/crmarques/jbossctl/debugctx"
	"github.com/crmarques/jbossctl/faults"
	configfile "github.com/crmarques/jbossctl/internal/providers/config/file"
	managementhttp "github.com/crmarques/jbossctl/internal/providers/management/http"
)

func NewContextService(opts BootstrapConfig) config.ContextService {
	return configfile.NewFileContextService(opts.ContextCatalogPath)
}

func NewJbossctlContext(opts BootstrapConfig) JbossctlContext {
	contextService := NewContextService(opts)
	return JbossctlContext{
		Contexts: contextService,
		Sessions: &GatewaySessionOpener{
			Contexts: contextService,
			Options:  gatewayOptions(opts),
		},
	}
}

// GatewaySessionOpener resolves a context and connects an HTTP management
// gateway to it. Nothing is sent until the first operation.
type GatewaySessionOpener struct {
	Contexts config.ContextService
	Options  []managementhttp.GatewayOption
}

func (o *GatewaySessionOpener) Open(ctx context.Context, selection config.ContextSelection) (Session, error) {
	if o == nil || o.Contexts == nil {
		return Session{}, faults.NewTypedError(faults.InternalError, "context service is not configured", nil)
	}

	resolved, err := o.Contexts.ResolveContext(ctx, selection)
	if err != nil {
		return Session{}, err
	}

	gateway, err := managementhttp.NewGateway(resolved.Server, o.Options...)
	if err != nil {
		return Session{}, err
	}

	_, authMode := resolved.Server.Auth.Credentials()
	debugctx.Printf(
		ctx,
		"session context=%q endpoint=%q auth=%q timeout=%q",
		resolved.Name,
		gateway.Endpoint(),
		authMode,
		resolved.Server.Timeout,
	)

	return Session{
		Context:  resolved,
		Endpoint: gateway.Endpoint(),
		Client:   gateway,
	}, nil
}

func gatewayOptions(opts BootstrapConfig) []managementhttp.GatewayOption {
	options := []managementhttp.GatewayOption{}
	if opts.Registerer != nil {
		options = append(options, managementhttp.WithRegisterer(opts.Registerer))
	}
	if opts.TracerProvider != nil {
		options = append(options, managementhttp.WithTracerProvider(opts.TracerProvider))
	}
	return options
}
