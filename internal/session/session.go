// Package session управляет жизненным циклом авторизации клиента Market Scout.
package session

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mmeshcher/marketscout-client/internal/api"
	"github.com/mmeshcher/marketscout-client/internal/model"
)

// State описывает состояние авторизации.
type State string

const (
	StateAnonymous     State = "anonymous"
	StateChecking      State = "checking"
	StateAuthenticated State = "authenticated"
)

// API описывает операции бэкенда, используемые контроллером сессии.
type API interface {
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, username, email, password string) (string, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*model.User, error)
	HasSession() bool
	ClearTokens()
}

// DemoUser — локальная учётная запись демо-режима, используемая при
// недоступном бэкенде.
var DemoUser = model.User{
	ID:            1,
	Username:      "foodie_zach",
	Email:         "zach@example.com",
	EmailVerified: true,
	Role:          "user",
}

// Result описывает итог операции авторизации. Mock означает, что бэкенд был
// недоступен и клиент продолжил работу в демо-режиме.
type Result struct {
	OK      bool
	Mock    bool
	Message string
}

// Controller владеет личностью текущего пользователя и переходами состояний
// anonymous → checking → authenticated.
type Controller struct {
	api    API
	logger *zap.Logger
	state  State
	user   *model.User
}

// NewController создаёт контроллер сессии. Начальное состояние — checking,
// если в хранилище есть сохранённая пара токенов, иначе anonymous.
func NewController(a API, logger *zap.Logger) *Controller {
	state := StateAnonymous
	if a.HasSession() {
		state = StateChecking
	}
	return &Controller{
		api:    a,
		logger: logger,
		state:  state,
	}
}

// State возвращает текущее состояние авторизации.
func (c *Controller) State() State {
	return c.state
}

// User возвращает текущего пользователя или nil.
func (c *Controller) User() *model.User {
	return c.user
}

// Check валидирует сохранённую сессию запросом данных текущего пользователя.
// Любая неудача сбрасывает токены: устаревшая сессия никогда не показывается
// как действующая.
func (c *Controller) Check(ctx context.Context) {
	if c.state != StateChecking {
		return
	}

	user, err := c.api.Me(ctx)
	if err != nil {
		c.api.ClearTokens()
		c.state = StateAnonymous
		c.logger.Info("stored session rejected", zap.Error(err))
		return
	}

	c.user = user
	c.state = StateAuthenticated
	c.logger.Info("session restored", zap.String("username", user.Username))
}

// Login выполняет вход. Недоступный бэкенд переводит клиента в демо-режим;
// отказ в учётных данных возвращает сообщение сервера дословно.
func (c *Controller) Login(ctx context.Context, username, password string) Result {
	if err := c.api.Login(ctx, username, password); err != nil {
		if api.IsUnreachable(err) {
			return c.loginAsDemo()
		}
		return Result{Message: errorText(err)}
	}

	user, err := c.api.Me(ctx)
	if err != nil {
		if api.IsUnreachable(err) {
			return c.loginAsDemo()
		}
		return Result{Message: errorText(err)}
	}

	c.user = user
	c.state = StateAuthenticated
	return Result{OK: true}
}

func (c *Controller) loginAsDemo() Result {
	u := DemoUser
	c.user = &u
	c.state = StateAuthenticated
	c.logger.Warn("backend unreachable, continuing in demo mode")
	return Result{OK: true, Mock: true, Message: "logged in (demo mode)"}
}

// Register регистрирует пользователя. Успешная регистрация не выполняет вход:
// решение о последующем логине остаётся за вызывающим.
func (c *Controller) Register(ctx context.Context, username, email, password string) Result {
	message, err := c.api.Register(ctx, username, email, password)
	if err != nil {
		if api.IsUnreachable(err) {
			return Result{OK: true, Mock: true, Message: "registration simulated (demo mode)"}
		}
		return Result{Message: errorText(err)}
	}

	if message == "" {
		message = "registered"
	}
	return Result{OK: true, Message: message}
}

// Logout завершает сессию. Ошибки бэкенда игнорируются: локальная сессия
// сбрасывается в любом случае.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.api.Logout(ctx); err != nil {
		c.logger.Debug("logout request failed", zap.Error(err))
	}
	c.user = nil
	c.state = StateAnonymous
}

// errorText возвращает сообщение сервера для ошибок API и текст ошибки
// для всех остальных.
func errorText(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
