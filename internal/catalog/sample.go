package catalog

import "github.com/mmeshcher/marketscout-client/internal/model"

// SampleMarkets возвращает встроенный демонстрационный каталог, используемый
// при недоступном бэкенде.
func SampleMarkets() []model.Market {
	return []model.Market{
		{
			ID:      1,
			Name:    "Russo's Italian Market",
			Address: "123 Federal Hill, Providence RI",
			Type:    "Italian Specialty",
		},
		{
			ID:      2,
			Name:    "Atlantic Seafood Co.",
			Address: "45 Wharf Street, Newport RI",
			Type:    "Seafood",
		},
		{
			ID:      3,
			Name:    "Green Valley Organic",
			Address: "789 Farm Road, Warwick RI",
			Type:    "Organic Produce",
		},
		{
			ID:      4,
			Name:    "Bavarian Butcher Shop",
			Address: "321 Main St, Cranston RI",
			Type:    "German Meats",
		},
		{
			ID:      5,
			Name:    "Tokyo Fresh Market",
			Address: "567 Hope St, Providence RI",
			Type:    "Japanese Specialty",
		},
	}
}
