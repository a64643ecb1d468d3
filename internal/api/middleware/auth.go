package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/bitforce-booking/internal/api/handlers"
	"github.com/m04kA/bitforce-booking/internal/domain"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderUserID        = "X-User-ID"

	bearerPrefix = "Bearer "
)

type sessionKey struct{}

// Auth собирает сессию из Authorization: Bearer и/или X-User-ID.
// Запрос без обоих заголовков отклоняется с 401.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(r)
		if !ok {
			handlers.RespondUnauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// WithSession кладёт сессию в контекст
func WithSession(ctx context.Context, session domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext достаёт сессию, положенную Auth
func SessionFromContext(ctx context.Context) (domain.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(domain.Session)
	return session, ok && !session.IsAnonymous()
}

func sessionFromRequest(r *http.Request) (domain.Session, bool) {
	var session domain.Session

	if auth := r.Header.Get(HeaderAuthorization); auth != "" {
		if !strings.HasPrefix(auth, bearerPrefix) {
			return domain.Session{}, false
		}
		session.AccessToken = strings.TrimSpace(strings.TrimPrefix(auth, bearerPrefix))
		if session.AccessToken == "" {
			return domain.Session{}, false
		}
	}

	if raw := r.Header.Get(HeaderUserID); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			return domain.Session{}, false
		}
		session.UserID = userID
	}

	return session, !session.IsAnonymous()
}
