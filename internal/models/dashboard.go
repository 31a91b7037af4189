package models

// DashboardFilter — параметры фильтрации панели статистики.
// Пустой список означает отсутствие фильтра по полю.
type DashboardFilter struct {
	Productivity []string
	Mood         []string
}

// DailyProductivity содержит количество записей каждой категории продуктивности за день.
type DailyProductivity struct {
	Date   string         `json:"date"`
	Counts map[string]int `json:"counts"`
}

// DailyEnergy содержит средний уровень энергии за день.
type DailyEnergy struct {
	Date          string  `json:"date"`
	AverageEnergy float64 `json:"average_energy"`
}

// Dashboard — агрегированная статистика по записям пользователя.
type Dashboard struct {
	Empty                bool                `json:"empty"`
	MoodDistribution     map[string]int      `json:"mood_distribution"`
	ProductivityOverTime []DailyProductivity `json:"productivity_over_time"`
	AverageEnergy        []DailyEnergy       `json:"average_energy"`
	Entries              []*Entry            `json:"entries"`
}
