package middleware

import (
	"log/slog"
	"net/http"

	"github.com/templui/folio/internal/ctxkeys"
	"github.com/templui/folio/internal/service"
)

// SessionMiddleware checks for the editor session cookie and adds the session to context if valid
func SessionMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.SessionCookieName)
			if err != nil {
				// No cookie, continue as visitor
				next.ServeHTTP(w, r)
				return
			}

			session, err := authService.VerifyJWT(cookie.Value)
			if err != nil {
				// Expired or forged, drop it and continue as visitor
				authService.ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireEditor rejects requests without an editor session with 401.
// With enforce=false every caller may write, as with the client-only PIN gate.
func RequireEditor(enforce bool) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if !enforce {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			if ctxkeys.Session(r.Context()) == nil {
				slog.Info("editor session required",
					"method", r.Method,
					"path", r.URL.Path,
					"ip", getClientIP(r),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next(w, r)
		}
	}
}
