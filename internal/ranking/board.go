package ranking

import (
	"context"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/mmeshcher/marketscout-client/internal/api"
	"github.com/mmeshcher/marketscout-client/internal/model"
)

const (
	fetchRetries     = 2
	fetchBackoffBase = 200 * time.Millisecond
)

// BoardAPI описывает вызов бэкенда для получения таблицы оценок.
type BoardAPI interface {
	Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error)
}

// Board загружает серверные оценки рынков. Недоступный бэкенд подменяется
// встроенными демо-данными; ошибки сервера демо-данными не маскируются.
type Board struct {
	api    BoardAPI
	logger *zap.Logger

	mu        sync.Mutex
	entries   []model.LeaderboardEntry
	loaded    bool
	connected bool
	fetching  bool
}

// NewBoard создаёт загрузчик таблицы лидеров.
func NewBoard(a BoardAPI, logger *zap.Logger) *Board {
	return &Board{
		api:    a,
		logger: logger,
	}
}

// Fetch загружает таблицу оценок. Транспортные сбои повторяются с
// экспоненциальной задержкой; если бэкенд так и не ответил, подставляются
// демо-данные.
func (b *Board) Fetch(ctx context.Context) error {
	b.setFetching(true)
	defer b.setFetching(false)

	var entries []model.LeaderboardEntry
	backoff := retry.WithMaxRetries(fetchRetries, retry.NewExponential(fetchBackoffBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		res, fetchErr := b.api.Leaderboard(ctx)
		if fetchErr != nil {
			if api.IsUnreachable(fetchErr) {
				return retry.RetryableError(fetchErr)
			}
			return fetchErr
		}
		entries = res
		return nil
	})

	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case err == nil:
		b.entries = entries
		b.loaded = true
		b.connected = true
		return nil
	case api.IsUnreachable(err):
		b.entries = SampleEntries()
		b.loaded = true
		b.connected = false
		b.logger.Warn("leaderboard fetch failed, using sample data", zap.Error(err))
		return nil
	default:
		b.logger.Error("leaderboard fetch error", zap.Error(err))
		return err
	}
}

// Entries возвращает копию последней загруженной таблицы оценок.
func (b *Board) Entries() []model.LeaderboardEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries := make([]model.LeaderboardEntry, len(b.entries))
	copy(entries, b.entries)
	return entries
}

// Loaded сообщает, завершилась ли хотя бы одна загрузка.
func (b *Board) Loaded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loaded
}

// Connected сообщает, получены ли данные от настоящего бэкенда.
func (b *Board) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connected
}

// Fetching сообщает, выполняется ли загрузка прямо сейчас.
func (b *Board) Fetching() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fetching
}

func (b *Board) setFetching(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fetching = v
}
