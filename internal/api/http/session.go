package httpapi

import (
	"context"
	"log"
	"net/http"

	"school-canteen/internal/domain"

	"github.com/google/uuid"
)

const sessionCookie = "canteen_session"

type contextKey string

const sessionContextKey contextKey = "session"

// sessionMiddleware guarantees every request carries a session: it reads the
// cookie token (minting one if absent) and loads the visitor state from the
// session store into the request context.
func (h *Handler) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
			token = cookie.Value
		} else {
			token = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		session, err := h.Sessions.GetSession(r.Context(), token)
		if err != nil {
			log.Printf("[canteen] session lookup failed: %v", err)
			session = &domain.Session{Token: token}
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *domain.Session {
	if session, ok := r.Context().Value(sessionContextKey).(*domain.Session); ok {
		return session
	}
	return &domain.Session{}
}
