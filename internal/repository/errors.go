package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound — строка не найдена; сервисы не должны знать про pgx.ErrNoRows.
var ErrNotFound = errors.New("not found")

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// IsUniqueViolation — нарушение уникального ограничения (SQLSTATE 23505).
// БД остаётся последним арбитром уникальности слагов: проверка перед
// вставкой — оптимизация, а не гарантия.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
