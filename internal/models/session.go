package models

import "time"

// Session — подтверждение личности пользователя на время работы с сервисом.
// Сессия не хранится на сервере: она передаётся клиенту в виде подписанного токена.
type Session struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// TTL возвращает оставшееся время жизни сессии относительно now.
func (s *Session) TTL(now time.Time) time.Duration {
	return s.ExpiresAt.Sub(now)
}
