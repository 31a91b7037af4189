package models

import "time"

// Значения оценки продуктивности.
const (
	ProductivityProductive = "Productive"
	ProductivityNeutral    = "Neutral"
	ProductivityDistracted = "Distracted"
)

// Значения настроения.
const (
	MoodLow   = "Low"
	MoodOkay  = "Okay"
	MoodGood  = "Good"
	MoodGreat = "Great"
)

// DateLayout — формат даты записи журнала.
const DateLayout = "2006-01-02"

// Entry представляет запись журнала фокус-сессий пользователя.
type Entry struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Date         string    `json:"date"`       // Дата в формате 2006-01-02
	TimeBlock    string    `json:"time_block"` // Например, "10:00 - 10:30"
	Activity     string    `json:"activity"`
	Productivity string    `json:"productivity"`
	Mood         string    `json:"mood"`
	Energy       int       `json:"energy"` // Уровень энергии от 1 до 10
	Notes        string    `json:"notes,omitempty"`
	Timestamp    time.Time `json:"timestamp"` // Время создания записи, UTC
}

// DummyEntry используется для приёма данных из JSON-запроса
// до валидации и преобразования в Entry.
type DummyEntry struct {
	Date         string `json:"date" validate:"required"`
	TimeBlock    string `json:"time_block" validate:"max=64"`
	Activity     string `json:"activity" validate:"required,max=500"`
	Productivity string `json:"productivity" validate:"required,oneof=Productive Neutral Distracted"`
	Mood         string `json:"mood" validate:"required,oneof=Low Okay Good Great"`
	Energy       int    `json:"energy" validate:"required,min=1,max=10"`
	Notes        string `json:"notes" validate:"max=2000"`
}
