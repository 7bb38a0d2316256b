// Package model содержит доменные сущности клиента Market Scout.
package model

// Market представляет торговую точку из каталога платформы.
// После создания рынок неизменяем с точки зрения клиента.
type Market struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Type    string `json:"type"`
}

// MarketType описывает категорию рынка из фиксированного перечня.
type MarketType string

const (
	MarketTypeFarmersMarket MarketType = "farmers_market"
	MarketTypeGrocery       MarketType = "grocery"
	MarketTypeButcher       MarketType = "butcher"
	MarketTypeBakery        MarketType = "bakery"
	MarketTypeDeli          MarketType = "deli"
	MarketTypeSpecialty     MarketType = "specialty"
	MarketTypeOrganic       MarketType = "organic"
	MarketTypeSeafood       MarketType = "seafood"
	MarketTypeOther         MarketType = "other"
)

// MarketTypes возвращает перечень допустимых категорий для создания рынка.
func MarketTypes() []MarketType {
	return []MarketType{
		MarketTypeFarmersMarket,
		MarketTypeGrocery,
		MarketTypeButcher,
		MarketTypeBakery,
		MarketTypeDeli,
		MarketTypeSpecialty,
		MarketTypeOrganic,
		MarketTypeSeafood,
		MarketTypeOther,
	}
}

// IsValid сообщает, входит ли категория в фиксированный перечень.
func (t MarketType) IsValid() bool {
	for _, known := range MarketTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// LeaderboardEntry содержит серверную композитную оценку одного рынка.
// Запись существует только для рынков хотя бы с одним отзывом.
type LeaderboardEntry struct {
	ID    int64   `json:"id"`
	Score float64 `json:"score"`
}

// RankedMarket — производная сущность: рынок вместе с необязательной оценкой.
// Score равен nil, если для рынка нет записи в таблице лидеров.
type RankedMarket struct {
	Market
	Score *float64
}

// User представляет аутентифицированного пользователя платформы.
type User struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Role          string `json:"role"`
}

// TokenPair содержит access- и refresh-токены сессии.
// Пара хранится и сбрасывается только целиком.
type TokenPair struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}

// IsZero сообщает, что пара токенов отсутствует.
func (p TokenPair) IsZero() bool {
	return p.Access == "" && p.Refresh == ""
}

// Sentiment содержит агрегированную тональность отзывов по рынку.
type Sentiment struct {
	MarketID         int64   `json:"market_id"`
	AverageSentiment float64 `json:"average_sentiment"`
	ReviewsCount     int     `json:"reviews_count"`
}
