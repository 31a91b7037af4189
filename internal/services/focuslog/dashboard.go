package focuslog

import (
	"sort"

	"github.com/magabrotheeeer/focus-tracker/internal/models"
)

var productivityLevels = []string{
	models.ProductivityProductive,
	models.ProductivityNeutral,
	models.ProductivityDistracted,
}

// BuildDashboard агрегирует записи с учётом фильтра.
// Пустой список значений фильтра означает «все значения».
func BuildDashboard(entries []*models.Entry, filter models.DashboardFilter) models.Dashboard {
	filtered := FilterEntries(entries, filter)
	dashboard := models.Dashboard{
		Empty:                len(filtered) == 0,
		MoodDistribution:     MoodDistribution(filtered),
		ProductivityOverTime: ProductivityOverTime(filtered),
		AverageEnergy:        AverageEnergyByDate(filtered),
		Entries:              filtered,
	}
	return dashboard
}

// FilterEntries оставляет записи, подходящие под фильтр, новые первыми.
func FilterEntries(entries []*models.Entry, filter models.DashboardFilter) []*models.Entry {
	productivity := toSet(filter.Productivity)
	mood := toSet(filter.Mood)

	result := make([]*models.Entry, 0, len(entries))
	for _, e := range entries {
		if len(productivity) > 0 && !productivity[e.Productivity] {
			continue
		}
		if len(mood) > 0 && !mood[e.Mood] {
			continue
		}
		result = append(result, e)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	return result
}

// MoodDistribution считает записи по каждому настроению.
func MoodDistribution(entries []*models.Entry) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.Mood]++
	}
	return counts
}

// ProductivityOverTime считает записи каждой категории продуктивности по дням.
// Дни упорядочены по возрастанию, отсутствующие категории заполняются нулями.
func ProductivityOverTime(entries []*models.Entry) []models.DailyProductivity {
	byDate := make(map[string]map[string]int)
	for _, e := range entries {
		counts, ok := byDate[e.Date]
		if !ok {
			counts = make(map[string]int, len(productivityLevels))
			for _, level := range productivityLevels {
				counts[level] = 0
			}
			byDate[e.Date] = counts
		}
		counts[e.Productivity]++
	}

	result := make([]models.DailyProductivity, 0, len(byDate))
	for _, date := range sortedKeys(byDate) {
		result = append(result, models.DailyProductivity{Date: date, Counts: byDate[date]})
	}
	return result
}

// AverageEnergyByDate считает средний уровень энергии по дням, дни по возрастанию.
func AverageEnergyByDate(entries []*models.Entry) []models.DailyEnergy {
	type acc struct {
		sum, n int
	}
	byDate := make(map[string]*acc)
	for _, e := range entries {
		a, ok := byDate[e.Date]
		if !ok {
			a = &acc{}
			byDate[e.Date] = a
		}
		a.sum += e.Energy
		a.n++
	}

	result := make([]models.DailyEnergy, 0, len(byDate))
	for _, date := range sortedKeys(byDate) {
		a := byDate[date]
		result = append(result, models.DailyEnergy{
			Date:          date,
			AverageEnergy: float64(a.sum) / float64(a.n),
		})
	}
	return result
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// Даты в формате 2006-01-02 упорядочиваются лексикографически.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
