package core

import (
	"context"

	"github.com/crmarques/jbossctl/config"
	"github.com/crmarques/jbossctl/management"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

type JbossctlContext struct {
	Contexts config.ContextService
	Sessions SessionOpener
}

type BootstrapConfig struct {
	ContextCatalogPath string
	Registerer         prometheus.Registerer
	TracerProvider     trace.TracerProvider
}

// Session is a management client bound to one resolved context.
type Session struct {
	Context  config.Context
	Endpoint string
	Client   management.Client
}

type SessionOpener interface {
	Open(ctx context.Context, selection config.ContextSelection) (Session, error)
}
