package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/crmarques/jbossctl/management"
)

// decodeResult maps a management response onto a Result. The endpoint
// reports rejected operations with status 500 and an outcome body, so the
// status code alone does not decide between success and failure.
func decodeResult(statusCode int, body []byte) (management.Result, error) {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return management.Result{}, authError(
			fmt.Sprintf("management endpoint rejected the credentials with status %d", statusCode),
			nil,
		)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return management.Result{}, transportError(
			fmt.Sprintf("management endpoint returned status %d with an empty body", statusCode),
			nil,
		)
	}

	var result management.Result
	if err := json.Unmarshal(trimmed, &result); err != nil {
		return management.Result{}, transportError(
			fmt.Sprintf("management endpoint returned status %d with a non-JSON body: %s", statusCode, summarizeBody(body)),
			err,
		)
	}
	if result.Outcome == "" {
		return management.Result{}, transportError(
			fmt.Sprintf("management endpoint returned status %d without an outcome: %s", statusCode, summarizeBody(body)),
			nil,
		)
	}
	return result, nil
}

func summarizeBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "<empty>"
	}
	if len(trimmed) > 512 {
		return trimmed[:512] + "..."
	}
	return trimmed
}
