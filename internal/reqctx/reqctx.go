// internal/reqctx/reqctx.go
package reqctx

import (
	"context"

	"blogtalks/internal/models"
)

type key int

const (
	keyRequestID key = iota
	keyUser
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func GetRequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRequestID).(string)
	return v, ok
}

// WithUser кладёт в контекст аутентифицированного пользователя (id + роль).
func WithUser(ctx context.Context, user models.AuthUser) context.Context {
	return context.WithValue(ctx, keyUser, user)
}

func GetUser(ctx context.Context) (models.AuthUser, bool) {
	v, ok := ctx.Value(keyUser).(models.AuthUser)
	return v, ok
}
