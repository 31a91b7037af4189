package models

import "time"

// Ключи маршрутизации доменных событий.
const (
	EventUserRegistered  = "user.registered"
	EventFocusLogCreated = "focuslog.created"
)

// Event — доменное событие, публикуемое в брокер сообщений.
type Event struct {
	Type       string    `json:"type"`
	Username   string    `json:"username"`
	OccurredAt time.Time `json:"occurred_at"`
	EntryID    int       `json:"entry_id,omitempty"`
}
