// Package catalog загружает каталог рынков и создаёт новые рынки.
package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/mmeshcher/marketscout-client/internal/api"
	"github.com/mmeshcher/marketscout-client/internal/model"
	"github.com/mmeshcher/marketscout-client/internal/notice"
	"github.com/mmeshcher/marketscout-client/internal/validation"
)

const (
	fetchRetries     = 2
	fetchBackoffBase = 200 * time.Millisecond
)

// API описывает операции бэкенда, используемые каталогом.
type API interface {
	Markets(ctx context.Context) ([]model.Market, error)
	CreateMarket(ctx context.Context, name, address string, marketType model.MarketType) (*model.Market, error)
}

// CreateResult описывает итог создания рынка.
type CreateResult struct {
	OK      bool
	Mock    bool
	Refresh bool
	Message string
}

// Catalog хранит список рынков. Недоступный бэкенд подменяется встроенными
// демо-данными; ошибки сервера демо-данными не маскируются.
type Catalog struct {
	api    API
	logger *zap.Logger
	notice *notice.Notice

	mu        sync.Mutex
	markets   []model.Market
	loaded    bool
	connected bool
	fetching  bool
}

// New создаёт каталог рынков.
func New(a API, logger *zap.Logger) *Catalog {
	return &Catalog{
		api:    a,
		logger: logger,
		notice: notice.New(notice.DefaultTTL),
	}
}

// Fetch загружает каталог. Транспортные сбои повторяются с экспоненциальной
// задержкой; если бэкенд так и не ответил, подставляются демо-данные.
func (c *Catalog) Fetch(ctx context.Context) error {
	c.setFetching(true)
	defer c.setFetching(false)

	var markets []model.Market
	backoff := retry.WithMaxRetries(fetchRetries, retry.NewExponential(fetchBackoffBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		res, fetchErr := c.api.Markets(ctx)
		if fetchErr != nil {
			if api.IsUnreachable(fetchErr) {
				return retry.RetryableError(fetchErr)
			}
			return fetchErr
		}
		markets = res
		return nil
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case err == nil:
		c.markets = markets
		c.loaded = true
		c.connected = true
		return nil
	case api.IsUnreachable(err):
		c.markets = SampleMarkets()
		c.loaded = true
		c.connected = false
		c.logger.Warn("catalog fetch failed, using sample data", zap.Error(err))
		return nil
	default:
		c.logger.Error("catalog fetch error", zap.Error(err))
		return err
	}
}

// Create проверяет форму нового рынка и отправляет её на сервер. До
// прохождения локальной валидации сетевой запрос не выполняется. Успешное
// создание требует обновления каталога и таблицы лидеров вызывающим.
func (c *Catalog) Create(ctx context.Context, name, address string, marketType model.MarketType) CreateResult {
	if !validation.IsValidMarketForm(name, address, marketType) {
		message := "market needs a name (2+ chars), address (5+ chars) and a category"
		c.notice.Set(false, message)
		return CreateResult{Message: message}
	}

	market, err := c.api.CreateMarket(ctx, name, address, marketType)
	switch {
	case err == nil:
		c.notice.Set(true, "Market created successfully!")
		c.logger.Info("market created", zap.Int64("marketID", market.ID), zap.String("name", market.Name))
		return CreateResult{OK: true, Refresh: true, Message: "Market created successfully!"}
	case api.IsUnreachable(err):
		c.notice.Set(true, "Market created! (Demo mode)")
		return CreateResult{OK: true, Mock: true, Message: "Market created! (Demo mode)"}
	default:
		message := errorText(err)
		c.notice.Set(false, message)
		return CreateResult{Message: message}
	}
}

// Markets возвращает копию текущего списка рынков.
func (c *Catalog) Markets() []model.Market {
	c.mu.Lock()
	defer c.mu.Unlock()

	markets := make([]model.Market, len(c.markets))
	copy(markets, c.markets)
	return markets
}

// Loaded сообщает, завершилась ли хотя бы одна загрузка каталога.
func (c *Catalog) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Connected сообщает, получен ли каталог от настоящего бэкенда.
func (c *Catalog) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Fetching сообщает, выполняется ли загрузка прямо сейчас.
func (c *Catalog) Fetching() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetching
}

// Notice возвращает временное сообщение о результате создания рынка.
func (c *Catalog) Notice() *notice.Notice {
	return c.notice
}

func (c *Catalog) setFetching(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetching = v
}

func errorText(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
