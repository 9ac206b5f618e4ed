package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Key type for context
type contextKey string

const sessionContextKey = contextKey("session")

// SessionCookie is the name of the client-held session token cookie.
const SessionCookie = "shop_session"

// SessionMiddleware reads the session cookie, issuing a fresh token when the
// client has none, and attaches the session id to the request context. The
// session exists solely to key the client's cart.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
			sessionID = cookie.Value
		} else {
			sessionID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
			})
		}

		// Attach the session id to the request context
		ctx := context.WithValue(r.Context(), sessionContextKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID returns the session id attached by SessionMiddleware, or the
// empty string when the middleware did not run.
func SessionID(ctx context.Context) string {
	sessionID, _ := ctx.Value(sessionContextKey).(string)
	return sessionID
}
