// Package api предоставляет HTTP-клиент для бэкенда платформы Market Scout.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/mmeshcher/marketscout-client/internal/model"
	"github.com/mmeshcher/marketscout-client/internal/tokenstore"
)

// ErrUnreachable означает, что запрос не дошёл до сетевого уровня:
// HTTP-ответа не было вовсе. Ответ с кодом 5xx такой ошибкой не считается —
// откат на демо-режим предусмотрен только для недоступного бэкенда.
var ErrUnreachable = errors.New("backend unreachable")

// Error описывает ошибку API с HTTP-статусом и сообщением сервера.
type Error struct {
	Status  int
	Message string
}

// Error реализует интерфейс error.
func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsUnreachable сообщает, что ошибка вызвана недоступностью бэкенда.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}

// Client инкапсулирует HTTP-взаимодействие с бэкендом Market Scout:
// подстановку bearer-токена, однократное обновление пары токенов по 401
// и классификацию транспортных сбоев.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
	store      tokenstore.Store

	// mu защищает пару токенов: повтор запроса после обновления обязан
	// использовать токен, записанный именно этим обновлением.
	mu     sync.Mutex
	tokens model.TokenPair
}

// NewClient создаёт клиент API по указанному базовому адресу.
// Сохранённая пара токенов, если она есть, подхватывается из хранилища.
func NewClient(baseURL string, store tokenstore.Store, timeout time.Duration, logger *zap.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 1
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 500 * time.Millisecond
	rc.HTTPClient.Timeout = timeout
	rc.Logger = zap.NewStdLog(logger)

	// Повторяются только транспортные сбои без ответа. Любой полученный
	// HTTP-статус, включая 5xx, отдаётся вызывающему как есть.
	rc.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return resp == nil && err != nil, nil
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: rc,
		store:      store,
	}

	if pair, ok := store.Load(); ok {
		c.tokens = pair
	}

	return c
}

// HasSession сообщает, есть ли у клиента пара токенов.
func (c *Client) HasSession() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.tokens.IsZero()
}

// SetTokens атомарно заменяет пару токенов в памяти и в хранилище сессии.
func (c *Client) SetTokens(pair model.TokenPair) error {
	c.mu.Lock()
	c.tokens = pair
	c.mu.Unlock()
	return c.store.Save(pair)
}

// ClearTokens сбрасывает пару токенов в памяти и удаляет файл сессии.
func (c *Client) ClearTokens() {
	c.mu.Lock()
	c.tokens = model.TokenPair{}
	c.mu.Unlock()
	_ = c.store.Clear()
}

func (c *Client) currentTokens() model.TokenPair {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens
}

func (c *Client) url(path string) string {
	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return base + "/api" + path
}

// do выполняет запрос к API. При ответе 401 и наличии refresh-токена
// выполняется ровно одна попытка обновления пары с однократным повтором
// исходного запроса; неудачное обновление сбрасывает сессию, а вызывающему
// возвращается исходный 401.
func (c *Client) do(ctx context.Context, method, path string, body any, auth bool) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	tokens := c.currentTokens()
	bearer := ""
	if auth {
		bearer = tokens.Access
	}

	status, data, err := c.send(ctx, method, path, payload, bearer)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized && tokens.Refresh != "" {
		if refreshErr := c.refresh(ctx); refreshErr != nil {
			c.ClearTokens()
		} else {
			// Повторный запрос читает токен, записанный только что
			// завершившимся обновлением.
			retryStatus, retryData, retryErr := c.send(ctx, method, path, payload, c.currentTokens().Access)
			if retryErr != nil {
				return nil, retryErr
			}
			return decodeResult(retryStatus, retryData)
		}
	}

	return decodeResult(status, data)
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, bearer string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil, ctx.Err()
		}
		return 0, nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}

	return resp.StatusCode, data, nil
}

// refresh выполняет единственную попытку обновления пары токенов.
// Успех атомарно заменяет оба токена; второй попытки не бывает.
func (c *Client) refresh(ctx context.Context) error {
	tokens := c.currentTokens()
	if tokens.Refresh == "" {
		return errors.New("no refresh token")
	}

	status, data, err := c.send(ctx, http.MethodPost, "/token/refresh", nil, tokens.Refresh)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &Error{Status: status, Message: errorMessage(data)}
	}

	var resp struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	if resp.Access == "" || resp.Refresh == "" {
		return errors.New("incomplete token pair in refresh response")
	}

	return c.SetTokens(model.TokenPair{Access: resp.Access, Refresh: resp.Refresh})
}

func decodeResult(status int, data []byte) ([]byte, error) {
	if status >= 200 && status < 300 {
		return data, nil
	}
	return nil, &Error{Status: status, Message: errorMessage(data)}
}

// errorMessage извлекает текст ошибки из ответа сервера: сначала поле error,
// затем msg, иначе общее сообщение.
func errorMessage(data []byte) string {
	var payload struct {
		Error string `json:"error"`
		Msg   string `json:"msg"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Msg != "" {
			return payload.Msg
		}
	}
	return "request failed"
}
