package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"blogtalks/internal/logger"
	"blogtalks/internal/services"
	"blogtalks/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// pathID читает числовой параметр маршрута; mux уже отфильтровал нечисловые
// значения регэкспом, так что ошибка тут — рассинхрон таблицы маршрутов.
func pathID(r *http.Request, name string) (int, error) {
	return strconv.Atoi(mux.Vars(r)[name])
}

// respondServiceError переводит бизнес-ошибки сервисов в HTTP-ответы.
// Всё, что не распознано — 500 с общим текстом, детали остаются в логе.
func respondServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		helpers.ValidationFail(w, verr.Fields)
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		helpers.Fail(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, services.ErrForbidden):
		helpers.Fail(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, services.ErrUnauthorized):
		helpers.Fail(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrConflict):
		helpers.Fail(w, http.StatusConflict, conflictMessage(err))
	case errors.Is(err, services.ErrBadRequest):
		helpers.Fail(w, http.StatusBadRequest, "Invalid request")
	default:
		logger.WithCtx(ctx).Error("Необработанная ошибка сервиса", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

// conflictMessage достаёт человеческий текст из обёрнутого ErrConflict
// ("conflict: Tag with this name already exists" → часть после двоеточия).
func conflictMessage(err error) string {
	msg := err.Error()
	prefix := services.ErrConflict.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return "Conflict"
}
