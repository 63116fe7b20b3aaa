package http

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/crmarques/jbossctl/debugctx"
	"github.com/crmarques/jbossctl/management"
)

func (g *Gateway) doRequest(ctx context.Context, purpose string, request *http.Request) (*http.Response, error) {
	debugctx.Printf(
		ctx,
		"http request purpose=%q method=%q url=%q auth=%s tls_enabled=%t tls_insecure_skip_verify=%t tls_ca_cert_file=%q tls_client_cert_file=%q",
		purpose,
		request.Method,
		redactURLForDebug(request.URL),
		g.auth.describe(),
		g.tlsDebug.enabled,
		g.tlsDebug.insecureSkipVerify,
		g.tlsDebug.caCertFile,
		g.tlsDebug.clientCertFile,
	)

	response, err := g.client.Do(request)
	if err != nil {
		debugctx.Printf(
			ctx,
			"http request failed purpose=%q method=%q url=%q error=%v",
			purpose,
			request.Method,
			redactURLForDebug(request.URL),
			err,
		)
		return nil, err
	}

	debugctx.Printf(
		ctx,
		"http response purpose=%q method=%q url=%q status=%d",
		purpose,
		request.Method,
		redactURLForDebug(request.URL),
		response.StatusCode,
	)
	return response, nil
}

func redactURLForDebug(value *url.URL) string {
	if value == nil {
		return ""
	}

	cloned := *value
	cloned.User = nil

	query := cloned.Query()
	if len(query) > 0 {
		for key, values := range query {
			redacted := make([]string, len(values))
			for idx := range values {
				redacted[idx] = "<redacted>"
			}
			query[key] = redacted
		}
		cloned.RawQuery = query.Encode()
	}

	return cloned.String()
}

// describeOperationForDebug names the operation and its parameter keys.
// Parameter values can hold credentials and are never logged.
func describeOperationForDebug(operation management.Operation) string {
	if operation.Name == management.OpComposite {
		steps := make([]string, 0, len(operation.Steps))
		for _, step := range operation.Steps {
			steps = append(steps, describeOperationForDebug(step))
		}
		return operation.Describe() + " [" + strings.Join(steps, "; ") + "]"
	}

	keys := make([]string, 0, len(operation.Params))
	for key := range operation.Params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return operation.Describe() + " params=[" + strings.Join(keys, ",") + "]"
}
