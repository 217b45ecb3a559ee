package delivery

import (
	"context"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/wellness_ai/internal/session"
	"github.com/google/uuid"
)

const SessionCookie = "wellness_session"

type sessionKey struct{}

// SessionMiddleware binds each request to a session keyed by a browser cookie.
// The cookie has no expiry, so the chat log lives as long as the browser session.
func SessionMiddleware(store session.Store, log *logger.ZapLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(SessionCookie); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					id = c.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			data, err := session.Open(r.Context(), store, id)
			if err != nil {
				log.Log(logger.LogEntry{Level: "error", Message: "open session", Service: "delivery", Error: err})
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey{}, data)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFrom(r *http.Request) *session.Data {
	data, _ := r.Context().Value(sessionKey{}).(*session.Data)
	return data
}
