// Package validation содержит функции валидации входных данных форм.
package validation

import (
	"unicode/utf8"

	"github.com/mmeshcher/marketscout-client/internal/model"
)

// Пороговые значения клиентской валидации форм.
const (
	MinRating        = 1
	MaxRating        = 5
	MinReviewLength  = 10
	MinMarketName    = 2
	MinMarketAddress = 5
)

// IsValidRating проверяет, что оценка лежит в диапазоне от 1 до 5 включительно.
func IsValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

// IsValidReview проверяет форму отзыва: оценка обязательна, текст — не короче
// десяти символов. Длина считается в рунах, а не в байтах.
func IsValidReview(rating int, text string) bool {
	return IsValidRating(rating) && utf8.RuneCountInString(text) >= MinReviewLength
}

// IsValidMarketName проверяет название рынка.
func IsValidMarketName(name string) bool {
	return utf8.RuneCountInString(name) >= MinMarketName
}

// IsValidMarketAddress проверяет адрес рынка.
func IsValidMarketAddress(address string) bool {
	return utf8.RuneCountInString(address) >= MinMarketAddress
}

// IsValidMarketForm проверяет форму создания рынка целиком: название, адрес
// и категорию из фиксированного перечня. До прохождения проверки сетевые
// запросы не выполняются.
func IsValidMarketForm(name, address string, marketType model.MarketType) bool {
	return IsValidMarketName(name) && IsValidMarketAddress(address) && marketType.IsValid()
}
