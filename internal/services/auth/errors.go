package auth

import "errors"

// Ошибки, которые AuthService возвращает вызывающему коду.
// Ошибки хранилища наружу не передаются.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrServiceUnavailable = errors.New("service unavailable")
)
