package middleware

import (
	"context"
	"net/http"

	"blogtalks/internal/logger"
	"blogtalks/internal/models"
	"blogtalks/internal/reqctx"
	"blogtalks/internal/utils/helpers"

	"go.uber.org/zap"
)

// SessionResolver превращает id сессии из куки в аутентифицированного
// пользователя. Строка сессии читается заново на каждый запрос: отозванная
// или просроченная сессия отваливается сразу.
type SessionResolver interface {
	ResolveSession(ctx context.Context, sessionID string) (*models.AuthUser, error)
}

// Authenticate требует действующую сессионную куку; без неё — 401.
func Authenticate(resolver SessionResolver, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			user, ok := resolveCookie(r, resolver, cookieName)
			if !ok {
				logger.WithCtx(r.Context()).Warn("Запрос без действующей сессии",
					zap.String("path", r.URL.Path))
				helpers.Fail(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			ctx := reqctx.WithUser(r.Context(), *user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth пропускает и анонимов: если кука есть и валидна, пользователь
// попадает в контекст, иначе запрос идёт дальше как анонимный. Нужен там, где
// видимость зависит от роли (черновики, немодерированные комментарии).
func OptionalAuth(resolver SessionResolver, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, ok := resolveCookie(r, resolver, cookieName); ok {
				r = r.WithContext(reqctx.WithUser(r.Context(), *user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func resolveCookie(r *http.Request, resolver SessionResolver, cookieName string) (*models.AuthUser, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	user, err := resolver.ResolveSession(r.Context(), cookie.Value)
	if err != nil {
		return nil, false
	}
	return user, true
}
