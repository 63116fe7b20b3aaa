// Package telemetry wires the process-wide tracer provider and the metrics
// registry for one CLI invocation.
package telemetry

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/crmarques/jbossctl/faults"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	EndpointEnvVar = "OTEL_EXPORTER_OTLP_ENDPOINT"
	InsecureEnvVar = "OTEL_EXPORTER_OTLP_INSECURE"
)

type Config struct {
	ServiceName    string
	ServiceVersion string
	OTLPEndpoint   string
	OTLPInsecure   bool
}

// ConfigFromEnv reads the standard OTLP exporter variables. Tracing stays
// disabled unless an endpoint is set.
func ConfigFromEnv(serviceVersion string, lookupEnv func(string) (string, bool)) Config {
	cfg := Config{ServiceName: "jbossctl", ServiceVersion: serviceVersion}
	if lookupEnv == nil {
		return cfg
	}
	if endpoint, ok := lookupEnv(EndpointEnvVar); ok {
		cfg.OTLPEndpoint = strings.TrimSpace(endpoint)
	}
	if insecure, ok := lookupEnv(InsecureEnvVar); ok {
		cfg.OTLPInsecure, _ = strconv.ParseBool(strings.TrimSpace(insecure))
	}
	return cfg
}

// Init returns the tracer provider to hand to the management transport and
// a shutdown func that flushes pending spans.
func Init(ctx context.Context, cfg Config) (trace.TracerProvider, func(context.Context) error, error) {
	if cfg.OTLPEndpoint == "" {
		return noop.NewTracerProvider(), func(context.Context) error { return nil }, nil
	}

	opts := []otlptracegrpc.Option{}
	if strings.Contains(cfg.OTLPEndpoint, "://") {
		opts = append(opts, otlptracegrpc.WithEndpointURL(cfg.OTLPEndpoint))
	} else {
		opts = append(opts, otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint))
	}
	if cfg.OTLPInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, nil, faults.NewTypedError(faults.ValidationError, "failed to create OTLP trace exporter", err)
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
	)
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return provider, provider.Shutdown, nil
}

func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// WriteMetricsFile writes gathered metrics in node-exporter textfile format.
func WriteMetricsFile(path string, gatherer prometheus.Gatherer) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if gatherer == nil {
		return faults.NewTypedError(faults.InternalError, "metrics registry is not initialized", errors.New("nil registry"))
	}
	if err := prometheus.WriteToTextfile(path, gatherer); err != nil {
		return faults.NewTypedError(faults.InternalError, "failed to write metrics file", err)
	}
	return nil
}
