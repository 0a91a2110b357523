package transport

import (
	"log/slog"
	"net/http"

	"github.com/quillhq/quill/pkg/api"
)

// RecoveryMiddleware catches panics in handlers and converts them to
// error responses. The server keeps accepting requests after a panic
// is recovered.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", RequestIDFromContext(r.Context()),
				)
				WriteJSON(w, http.StatusInternalServerError,
					api.ErrorResponse{Error: &api.APIError{
						Type:    api.ErrorTypeStorage,
						Message: "Internal server error",
					}})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
