package ranking

import "github.com/mmeshcher/marketscout-client/internal/model"

// SampleEntries возвращает встроенную демонстрационную таблицу оценок,
// используемую при недоступном бэкенде. Идентификаторы соответствуют
// демо-каталогу рынков.
func SampleEntries() []model.LeaderboardEntry {
	return []model.LeaderboardEntry{
		{ID: 1, Score: 9.2},
		{ID: 5, Score: 8.9},
		{ID: 2, Score: 8.7},
		{ID: 3, Score: 8.4},
		{ID: 4, Score: 8.1},
	}
}
