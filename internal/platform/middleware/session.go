package middleware

import (
	"net/http"

	id "botilleria/pkg/domain"
	"botilleria/pkg/requestcontext"
)

// SessionCookieName carries the anonymous browsing-session identifier. Age
// verification records are keyed by it, so it must be stable for the life of
// the browsing session.
const SessionCookieName = "botilleria_session"

// BrowsingSession reads the session cookie, minting a new session ID when the
// cookie is absent or malformed, and exposes it through the request context.
func BrowsingSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID id.SessionID

		if c, err := r.Cookie(SessionCookieName); err == nil {
			if parsed, perr := id.ParseSessionID(c.Value); perr == nil {
				sessionID = parsed
			}
		}
		if sessionID.IsNil() {
			sessionID = id.NewSessionID()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sessionID.String(),
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := requestcontext.WithSessionID(r.Context(), sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
