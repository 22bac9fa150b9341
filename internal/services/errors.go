package services

import "errors"

// Сентинели бизнес-ошибок; хендлеры переводят их в HTTP-статусы.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrBadRequest   = errors.New("bad request")
)

// ValidationError — 422 с пофилдовыми сообщениями.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string { return "validation errors" }

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }
