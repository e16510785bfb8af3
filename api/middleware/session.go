package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/autostore/storefront-backend/pkg/logger"
)

const (
	sessionHeader = "X-Session-Id"
	sessionCookie = "storefront_session"
)

type sessionCtxKey struct{}

// Session resolves the caller's cart session id from the header or cookie,
// issuing a fresh one when absent, and places it on the request context.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := resolveSessionID(r)
			if sessionID == uuid.Nil {
				sessionID = uuid.New()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookie,
					Value:    sessionID.String(),
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			w.Header().Set(sessionHeader, sessionID.String())

			ctx := context.WithValue(r.Context(), sessionCtxKey{}, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSessionID places a session id on the context directly.
func WithSessionID(ctx context.Context, sessionID uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, sessionID)
}

// SessionIDFromContext returns the session id placed by Session, or uuid.Nil.
func SessionIDFromContext(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(sessionCtxKey{}).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

func resolveSessionID(r *http.Request) uuid.UUID {
	if raw := r.Header.Get(sessionHeader); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			return id
		}
	}
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			return id
		}
	}
	return uuid.Nil
}
