package domain

import "errors"

// Ошибки домена. Вызывающий код сопоставляет их через errors.Is,
// слои выше оборачивают их через fmt.Errorf("...: %w", err).
var (
	// ошибки хранилища
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	// ошибки сервисов
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")

	// ошибки сессии
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
