// Package admin guards operator-only endpoints with HTTP basic auth against a
// bcrypt credential hash. The compliance log listing is the only consumer; it
// exposes verification attempts and must never be publicly readable.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// RequireAdmin returns middleware enforcing basic auth with the configured
// username and bcrypt password hash. An empty hash disables the endpoints
// entirely rather than leaving them open.
func RequireAdmin(username, passwordHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if passwordHash == "" {
				http.NotFound(w, r)
				return
			}

			user, pass, ok := r.BasicAuth()
			if !ok ||
				subtle.ConstantTimeCompare([]byte(user), []byte(username)) != 1 ||
				bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(pass)) != nil {
				logger.WarnContext(r.Context(), "admin auth rejected",
					"path", r.URL.Path,
					"remote", r.RemoteAddr,
				)
				w.Header().Set("WWW-Authenticate", `Basic realm="botilleria-admin"`)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
