package middleware

import (
	"net/http"

	"blogtalks/internal/reqctx"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID присваивает запросу идентификатор (или берёт клиентский из
// заголовка) и кладёт его в контекст — дальше его подхватывает logger.WithCtx.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, rid)

		ctx := reqctx.WithRequestID(r.Context(), rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
