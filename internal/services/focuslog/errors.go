package focuslog

import "errors"

var (
	// ErrValidation некорректные данные записи.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthenticated операция вызвана без сессии.
	ErrUnauthenticated = errors.New("session required")
	// ErrServiceUnavailable хранилище недоступно.
	ErrServiceUnavailable = errors.New("service unavailable")
)
