package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/crmarques/jbossctl/config"
	"github.com/crmarques/jbossctl/debugctx"
	"github.com/crmarques/jbossctl/management"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	managementPath    = "/management"
	addContentPath    = "/management/add-content"
	jsonMediaType     = "application/json"
	InvocationHeader  = "X-Jbossctl-Invocation"
	uploadLabel       = "add-content"
	maxResponseBytes  = 32 << 20
	instrumentationID = "github.com/crmarques/jbossctl/internal/providers/management/http"
)

var _ management.Client = (*Gateway)(nil)

// Gateway is a management.Client speaking the JSON dialect of the WildFly
// HTTP management interface.
type Gateway struct {
	endpoint *url.URL
	client   *http.Client
	auth     authConfig
	tlsDebug tlsDebugInfo

	registerer     prometheus.Registerer
	tracerProvider trace.TracerProvider
	tracer         trace.Tracer
	metrics        *gatewayMetrics
}

type GatewayOption func(*Gateway)

// WithRegisterer registers the request counters on registerer instead of
// keeping them private to the gateway.
func WithRegisterer(registerer prometheus.Registerer) GatewayOption {
	return func(g *Gateway) {
		g.registerer = registerer
	}
}

func WithTracerProvider(provider trace.TracerProvider) GatewayOption {
	return func(g *Gateway) {
		if provider != nil {
			g.tracerProvider = provider
		}
	}
}

func NewGateway(cfg config.Server, opts ...GatewayOption) (*Gateway, error) {
	endpoint, err := endpointURL(cfg)
	if err != nil {
		return nil, err
	}

	timeout, err := parseTimeout(cfg.Timeout)
	if err != nil {
		return nil, err
	}

	auth, err := buildAuthConfig(cfg.Auth)
	if err != nil {
		return nil, err
	}

	tlsConfig, err := buildTLSConfig(cfg.TLS)
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig

	gateway := &Gateway{
		endpoint:       endpoint,
		client:         &http.Client{Timeout: timeout, Transport: transport},
		auth:           auth,
		tlsDebug:       newTLSDebugInfo(cfg.TLS),
		tracerProvider: otel.GetTracerProvider(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(gateway)
	}

	client := *gateway.client
	if client.Transport == nil {
		client.Transport = http.DefaultTransport
	}
	client.Transport = auth.wrapTransport(client.Transport)
	gateway.client = &client

	gateway.tracer = gateway.tracerProvider.Tracer(instrumentationID)
	gateway.metrics, err = newGatewayMetrics(gateway.registerer)
	if err != nil {
		return nil, err
	}
	return gateway, nil
}

func (g *Gateway) Endpoint() string {
	return g.endpoint.String()
}

// Execute posts operation and decodes the outcome. A rejected operation is
// returned as a non-success Result with a nil error.
func (g *Gateway) Execute(ctx context.Context, operation management.Operation) (management.Result, error) {
	label := operationLabel(operation)
	ctx, span := g.startSpan(ctx, label, attribute.String("jbossctl.address", operation.Address.String()))
	defer span.End()
	started := time.Now()

	result, err := g.execute(ctx, label, operation)
	g.finish(span, label, started, result.Outcome, err)
	if err == nil && !result.Succeeded() {
		span.SetAttributes(attribute.String("jbossctl.failure_description", result.Failure()))
	}
	return result, err
}

func (g *Gateway) execute(ctx context.Context, label string, operation management.Operation) (management.Result, error) {
	payload, err := json.Marshal(operation)
	if err != nil {
		return management.Result{}, validationError("failed to encode management operation", err)
	}
	debugctx.Printf(ctx, "management operation %s", describeOperationForDebug(operation))

	request, err := g.newRequest(ctx, g.endpoint.String(), jsonMediaType, payload)
	if err != nil {
		return management.Result{}, err
	}
	return g.roundTrip(ctx, label, request)
}

// Upload streams content into the server content repository and returns
// the hash under which the server stored it.
func (g *Gateway) Upload(ctx context.Context, name string, content io.Reader) (management.BytesValue, error) {
	ctx, span := g.startSpan(ctx, uploadLabel, attribute.String("jbossctl.content_name", name))
	defer span.End()
	started := time.Now()

	value, outcome, err := g.upload(ctx, name, content)
	g.finish(span, uploadLabel, started, outcome, err)
	return value, err
}

func (g *Gateway) upload(ctx context.Context, name string, content io.Reader) (management.BytesValue, string, error) {
	if content == nil {
		return management.BytesValue{}, "", validationError("upload content is required", nil)
	}

	// The digest handshake replays the request, so the form is buffered.
	form := &bytes.Buffer{}
	writer := multipart.NewWriter(form)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return management.BytesValue{}, "", internalError("failed to create upload form", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return management.BytesValue{}, "", artifactError(fmt.Sprintf("failed to read upload content %q", name), err)
	}
	if err := writer.Close(); err != nil {
		return management.BytesValue{}, "", internalError("failed to finalize upload form", err)
	}

	target := *g.endpoint
	target.Path = addContentPath
	request, err := g.newRequest(ctx, target.String(), writer.FormDataContentType(), form.Bytes())
	if err != nil {
		return management.BytesValue{}, "", err
	}

	result, err := g.roundTrip(ctx, uploadLabel, request)
	if err != nil {
		return management.BytesValue{}, "", err
	}
	if !result.Succeeded() {
		return management.BytesValue{}, result.Outcome, management.OperationError(uploadOperation(name), result)
	}

	var value management.BytesValue
	if err := result.Decode(&value); err != nil {
		return management.BytesValue{}, result.Outcome, err
	}
	if strings.TrimSpace(value.Base64) == "" {
		return management.BytesValue{}, result.Outcome, transportError("add-content returned no content hash", nil)
	}
	return value, result.Outcome, nil
}

func (g *Gateway) newRequest(ctx context.Context, target string, contentType string, body []byte) (*http.Request, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, internalError("failed to create management request", err)
	}
	request.Header.Set("Accept", jsonMediaType)
	request.Header.Set("Content-Type", contentType)
	if id := debugctx.InvocationID(ctx); id != "" {
		request.Header.Set(InvocationHeader, id)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(request.Header))
	g.auth.applyAuth(request)
	return request, nil
}

func (g *Gateway) roundTrip(ctx context.Context, purpose string, request *http.Request) (management.Result, error) {
	response, err := g.doRequest(ctx, purpose, request)
	if err != nil {
		return management.Result{}, transportError(fmt.Sprintf("management request to %s failed", g.endpoint.Host), err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return management.Result{}, transportError("failed to read management response body", err)
	}
	return decodeResult(response.StatusCode, body)
}

func (g *Gateway) startSpan(ctx context.Context, label string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("jbossctl.operation", label))
	if id := debugctx.InvocationID(ctx); id != "" {
		attrs = append(attrs, attribute.String("jbossctl.invocation_id", id))
	}
	return g.tracer.Start(ctx, "management."+label,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

func (g *Gateway) finish(span trace.Span, label string, started time.Time, outcome string, err error) {
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		g.metrics.observe(label, outcomeLabelError, started)
	case outcome == management.OutcomeSuccess:
		span.SetAttributes(attribute.String("jbossctl.outcome", outcome))
		g.metrics.observe(label, outcomeLabelSuccess, started)
	default:
		span.SetAttributes(attribute.String("jbossctl.outcome", outcome))
		span.SetStatus(codes.Error, "operation outcome "+outcome)
		g.metrics.observe(label, outcomeLabelFailed, started)
	}
}

func operationLabel(operation management.Operation) string {
	name := strings.TrimSpace(operation.Name)
	if name == "" {
		return "unknown"
	}
	return name
}

func uploadOperation(name string) management.Operation {
	return management.Operation{Name: uploadLabel, Params: map[string]any{"name": name}}
}

func endpointURL(cfg config.Server) (*url.URL, error) {
	scheme := strings.ToLower(strings.TrimSpace(cfg.Scheme))
	if scheme == "" {
		scheme = config.DefaultScheme
	}
	if scheme != config.SchemeHTTP && scheme != config.SchemeHTTPS {
		return nil, validationError("server.scheme must be http or https", nil)
	}

	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = config.DefaultHost
	}
	port := cfg.Port
	if port == 0 {
		port = config.DefaultPort
	}
	if port < 0 || port > 65535 {
		return nil, validationError(fmt.Sprintf("server.port %d is out of range", port), nil)
	}

	return &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   managementPath,
	}, nil
}

// parseTimeout treats an empty value as the default and zero as no limit.
func parseTimeout(value string) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = config.DefaultTimeout
	}
	if trimmed == "0" {
		return 0, nil
	}
	timeout, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, validationError("server.timeout must be a duration such as 60s", err)
	}
	if timeout < 0 {
		return 0, validationError("server.timeout must not be negative", nil)
	}
	return timeout, nil
}
