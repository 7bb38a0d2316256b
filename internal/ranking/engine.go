// Package ranking строит клиентский рейтинг рынков из каталога и серверных
// оценок таблицы лидеров.
package ranking

import (
	"sort"
	"strconv"
	"sync"

	"github.com/mmeshcher/marketscout-client/internal/model"
)

// Веса компонентов серверной формулы оценки. Формула показывается
// пользователю для прозрачности; само значение оценки клиент трактует как
// непрозрачный ключ сортировки.
const (
	RatingWeight      = 0.6
	SentimentWeight   = 0.3
	ReviewCountWeight = 0.1
)

// Formula — текстовое описание серверной формулы для отображения.
const Formula = "score = (rating x 0.6) + (sentiment x 0.3) + (log10(reviews) x 0.1)"

// BoardState описывает состояние таблицы лидеров для отображения.
// Пустая таблица и ещё не загруженная таблица — разные состояния.
type BoardState int

const (
	BoardLoading BoardState = iota
	BoardEmpty
	BoardReady
)

// Build соединяет каталог с оценками таблицы лидеров. Рынок без записи в
// таблице остаётся без Score: клиент никогда не придумывает оценку сам.
func Build(markets []model.Market, entries []model.LeaderboardEntry) []model.RankedMarket {
	scores := make(map[int64]float64, len(entries))
	for _, e := range entries {
		scores[e.ID] = e.Score
	}

	ranked := make([]model.RankedMarket, 0, len(markets))
	for _, m := range markets {
		rm := model.RankedMarket{Market: m}
		if score, ok := scores[m.ID]; ok {
			s := score
			rm.Score = &s
		}
		ranked = append(ranked, rm)
	}

	return ranked
}

// Rank возвращает оценённые рынки по убыванию оценки. При равных оценках
// сохраняется относительный порядок каталога.
func Rank(markets []model.Market, entries []model.LeaderboardEntry) []model.RankedMarket {
	joined := Build(markets, entries)

	scored := make([]model.RankedMarket, 0, len(joined))
	for _, rm := range joined {
		if rm.Score != nil {
			scored = append(scored, rm)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return *scored[i].Score > *scored[j].Score
	})

	return scored
}

// FormatScore форматирует оценку с одним знаком после запятой.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 1, 64)
}

// Engine хранит обе входные коллекции и кэширует результат соединения.
// Пересчёт выполняется только при изменении каталога или таблицы оценок,
// поэтому результат не зависит от порядка завершения двух загрузок.
type Engine struct {
	mu sync.Mutex

	markets []model.Market
	entries []model.LeaderboardEntry

	entriesLoaded  bool
	marketsVersion uint64
	entriesVersion uint64

	cached         []model.RankedMarket
	cachedMarkets  uint64
	cachedEntries  uint64
	haveCache      bool
	recomputeCount int
}

// NewEngine создаёт пустой движок рейтинга.
func NewEngine() *Engine {
	return &Engine{}
}

// SetMarkets заменяет каталог рынков и помечает кэш устаревшим.
func (e *Engine) SetMarkets(markets []model.Market) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.markets = markets
	e.marketsVersion++
}

// SetEntries заменяет таблицу оценок и помечает кэш устаревшим.
func (e *Engine) SetEntries(entries []model.LeaderboardEntry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = entries
	e.entriesLoaded = true
	e.entriesVersion++
}

// Ranked возвращает отсортированный рейтинг, пересчитывая его только при
// смене одной из входных коллекций.
func (e *Engine) Ranked() []model.RankedMarket {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.haveCache || e.cachedMarkets != e.marketsVersion || e.cachedEntries != e.entriesVersion {
		e.cached = Rank(e.markets, e.entries)
		e.cachedMarkets = e.marketsVersion
		e.cachedEntries = e.entriesVersion
		e.haveCache = true
		e.recomputeCount++
	}

	return e.cached
}

// Joined возвращает весь каталог с прикреплёнными оценками, включая рынки
// без оценки.
func (e *Engine) Joined() []model.RankedMarket {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Build(e.markets, e.entries)
}

// State возвращает состояние таблицы лидеров: загрузка, пустой рейтинг или
// готовый список.
func (e *Engine) State() BoardState {
	if !e.hasEntries() {
		return BoardLoading
	}
	if len(e.Ranked()) == 0 {
		return BoardEmpty
	}
	return BoardReady
}

func (e *Engine) hasEntries() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.entriesLoaded
}
