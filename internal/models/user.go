// Package models содержит доменные модели сервиса: пользователя, сессию
// и записи журнала фокус-сессий. Структуры используются в бизнес‑логике
// и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UUID         string    // Уникальный идентификатор пользователя
	Username     string    // Имя пользователя (уникальное, регистрозависимое)
	DisplayName  string    // Отображаемое имя
	PasswordHash string    // bcrypt-хэш пароля пользователя
	CreatedAt    time.Time // Дата регистрации
}
