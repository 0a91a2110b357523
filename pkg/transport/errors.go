package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/quillhq/quill/pkg/api"
	"github.com/quillhq/quill/pkg/storage"
)

// HTTPStatusFromError maps an APIError to its HTTP status code. Upstream
// errors are refined by their code: an upstream 401 means our stored API
// key is bad, an upstream model error is the caller's problem, everything
// else is unavailability.
func HTTPStatusFromError(err *api.APIError) int {
	switch err.Type {
	case api.ErrorTypeValidation:
		return http.StatusBadRequest
	case api.ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case api.ErrorTypeNotFound:
		return http.StatusNotFound
	case api.ErrorTypeConflict:
		return http.StatusConflict
	case api.ErrorTypeConfiguration:
		return http.StatusServiceUnavailable
	case api.ErrorTypeStorage:
		return http.StatusServiceUnavailable
	case api.ErrorTypeUpstream:
		switch err.Code {
		case api.CodeUpstreamAuth:
			return http.StatusUnauthorized
		case api.CodeUpstreamBadRequest:
			return http.StatusBadRequest
		default:
			return http.StatusServiceUnavailable
		}
	default:
		return http.StatusInternalServerError
	}
}

// WriteAPIError serializes an APIError with its mapped status code.
func WriteAPIError(w http.ResponseWriter, apiErr *api.APIError) {
	WriteJSON(w, HTTPStatusFromError(apiErr), api.ErrorResponse{Error: apiErr})
}

// WriteError converts any error to an APIError and writes it. Storage
// sentinels get their canonical categories; unknown errors become opaque
// storage errors so internals never leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		WriteAPIError(w, apiErr)
		return
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		WriteAPIError(w, api.NewNotFoundError("Resource not found"))
	case errors.Is(err, storage.ErrConflict):
		WriteAPIError(w, api.NewConflictError("Resource already exists"))
	default:
		slog.Error("unhandled error", "error", err)
		WriteAPIError(w, api.NewStorageError("Internal storage error"))
	}
}

// WriteJSON serializes body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("writing response", "error", err)
	}
}
