package transport

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSMiddleware lets browser frontends on any origin call the API. The
// origin is echoed back rather than wildcarded (AllowOriginFunc instead
// of AllowedOrigins) so credentialed requests stay valid. Preflight
// requests are answered before authentication, since browsers send them
// without credentials.
func CORSMiddleware(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowOriginFunc:  func(r *http.Request, origin string) bool { return true },
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})(next)
}
