package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/quillhq/quill/pkg/api"
	"github.com/quillhq/quill/pkg/storage"
)

// DefaultBypassEndpoints lists endpoints that skip authentication.
var DefaultBypassEndpoints = []string{"/", "/health", "/healthz", "/metrics"}

// Middleware creates HTTP middleware that verifies the bearer token, loads
// the account it names, and injects it into the request context. Paths on
// the bypass list pass through untouched.
func Middleware(tokens *Tokens, store storage.Store, bypassEndpoints []string) func(http.Handler) http.Handler {
	bypass := make(map[string]bool, len(bypassEndpoints))
	for _, ep := range bypassEndpoints {
		bypass[ep] = true
	}

	debugClaims := os.Getenv("QUILL_AUTH_DEBUG") == "true"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bypass[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				writeUnauthorized(w, "Authorization header required")
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				if debugClaims {
					logUnverifiedClaims(token)
				}
				slog.Warn("authentication failed",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"error", err,
				)
				switch {
				case errors.Is(err, ErrTokenExpired):
					writeUnauthorized(w, "Token has expired")
				default:
					writeUnauthorized(w, "Invalid token")
				}
				return
			}

			account, err := store.GetAccountByID(r.Context(), claims.AccountID)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					writeUnauthorized(w, "User not found")
					return
				}
				slog.Error("loading account for token", "account_id", claims.AccountID, "error", err)
				writeJSON(w, http.StatusInternalServerError,
					api.ErrorResponse{Error: api.NewStorageError("Internal authentication error")})
				return
			}
			if !account.IsActive {
				writeUnauthorized(w, "User not found")
				return
			}

			next.ServeHTTP(w, r.WithContext(SetAccount(r.Context(), account)))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// logUnverifiedClaims decodes the token payload without verifying the
// signature and logs it. Only enabled via QUILL_AUTH_DEBUG=true; the
// output must never be trusted for authorization.
func logUnverifiedClaims(token string) {
	var claims Claims
	parser := jwtlib.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		slog.Debug("rejected token is not parseable", "error", err)
		return
	}
	slog.Debug("rejected token claims (unverified)",
		"account_id", claims.AccountID,
		"email", claims.Email,
		"expires_at", claims.ExpiresAt,
	)
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeJSON(w, http.StatusUnauthorized,
		api.ErrorResponse{Error: api.NewAuthenticationError(message)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("writing auth response", "error", err)
	}
}
