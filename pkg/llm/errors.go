package llm

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/quillhq/quill/pkg/api"
)

// mapHTTPError converts a non-2xx backend response into an APIError whose
// code decides the status the caller relays: key problems surface as
// upstream_auth, model/request problems as upstream_bad_request, and
// everything else as upstream_unavailable.
func mapHTTPError(resp *http.Response) *api.APIError {
	message := extractErrorMessage(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if message == "" {
			message = "LLM backend rejected the API key"
		}
		return api.NewUpstreamError(api.CodeUpstreamAuth, message)

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		if message == "" {
			message = fmt.Sprintf("LLM backend rejected the request (HTTP %d)", resp.StatusCode)
		}
		return api.NewUpstreamError(api.CodeUpstreamBadRequest, message)

	default:
		if message == "" {
			message = fmt.Sprintf("LLM backend error (HTTP %d)", resp.StatusCode)
		}
		return api.NewUpstreamError(api.CodeUpstreamUnavailable, message)
	}
}

// mapNetworkError converts a network-level failure (connection refused,
// timeout, DNS) into an APIError.
func mapNetworkError(err error) *api.APIError {
	return api.NewUpstreamError(api.CodeUpstreamUnavailable,
		fmt.Sprintf("LLM backend connection error: %s", err.Error()))
}

// extractErrorMessage tries to parse the response body as a backend error
// envelope and returns the message if found.
func extractErrorMessage(body io.Reader) string {
	if body == nil {
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var errResp chatErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}

	return ""
}
