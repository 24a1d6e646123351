package middleware

import (
	"net/http"
	"strings"

	"livingdocs/internal/httputil"
	"livingdocs/internal/service"
)

// publicPrefixes are served without a bearer token: login, the
// capability-URL endpoints, liveness and metrics. Everything else under
// the mux requires a valid token.
var publicPrefixes = []string{
	"/api/login",
	"/api/public/",
	"/health",
	"/metrics",
}

// Auth middleware verifies the bearer token and stores the caller's
// identity in the request context.
func Auth(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := auth.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithUser(r, claims.Subject, claims.IsAdmin))
		})
	}
}

func isPublicPath(path string) bool {
	for _, prefix := range publicPrefixes {
		if path == strings.TrimSuffix(prefix, "/") || strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
