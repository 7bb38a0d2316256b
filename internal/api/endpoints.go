package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mmeshcher/marketscout-client/internal/model"
)

// Register регистрирует нового пользователя и возвращает сообщение сервера.
// Успешная регистрация не аутентифицирует пользователя автоматически.
func (c *Client) Register(ctx context.Context, username, email, password string) (string, error) {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}

	data, err := c.do(ctx, http.MethodPost, "/register", body, false)
	if err != nil {
		return "", err
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("decode register response: %w", err)
	}

	return resp.Message, nil
}

// Login выполняет вход и сохраняет полученную пару токенов.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	data, err := c.do(ctx, http.MethodPost, "/login", body, false)
	if err != nil {
		return err
	}

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		return fmt.Errorf("login response without token pair")
	}

	return c.SetTokens(model.TokenPair{Access: resp.AccessToken, Refresh: resp.RefreshToken})
}

// Logout завершает текущую сессию на сервере. Локальная пара токенов
// сбрасывается независимо от результата запроса.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/logout", nil, true)
	c.ClearTokens()
	return err
}

// LogoutAll завершает все сессии пользователя на сервере.
// Локальная пара токенов сбрасывается независимо от результата запроса.
func (c *Client) LogoutAll(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/logout-all", nil, true)
	c.ClearTokens()
	return err
}

// Me возвращает данные текущего пользователя.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	data, err := c.do(ctx, http.MethodGet, "/me", nil, true)
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}

	return &user, nil
}

// ForgotPassword запрашивает письмо для восстановления пароля.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	_, err := c.do(ctx, http.MethodPost, "/forgot_password", map[string]string{"email": email}, false)
	return err
}

// ResetPassword устанавливает новый пароль по токену восстановления.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	body := map[string]string{
		"token":    token,
		"password": password,
	}
	_, err := c.do(ctx, http.MethodPost, "/reset-password", body, false)
	return err
}

// Markets возвращает каталог рынков.
func (c *Client) Markets(ctx context.Context) ([]model.Market, error) {
	data, err := c.do(ctx, http.MethodGet, "/", nil, false)
	if err != nil {
		return nil, err
	}

	var markets []model.Market
	if err := json.Unmarshal(data, &markets); err != nil {
		return nil, fmt.Errorf("decode markets: %w", err)
	}

	return markets, nil
}

// Leaderboard возвращает серверные оценки рынков.
func (c *Client) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	data, err := c.do(ctx, http.MethodGet, "/leaderboard", nil, false)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Leaderboard []model.LeaderboardEntry `json:"leaderboard"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}

	return resp.Leaderboard, nil
}

// MarketSentiment возвращает агрегированную тональность отзывов по рынку.
func (c *Client) MarketSentiment(ctx context.Context, marketID int64) (*model.Sentiment, error) {
	data, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/%d/sentiment", marketID), nil, false)
	if err != nil {
		return nil, err
	}

	var sentiment model.Sentiment
	if err := json.Unmarshal(data, &sentiment); err != nil {
		return nil, fmt.Errorf("decode sentiment: %w", err)
	}

	return &sentiment, nil
}

// CreateMarket создаёт новый рынок и возвращает его серверное представление.
func (c *Client) CreateMarket(ctx context.Context, name, address string, marketType model.MarketType) (*model.Market, error) {
	body := map[string]string{
		"name":    name,
		"address": address,
		"type":    string(marketType),
	}

	data, err := c.do(ctx, http.MethodPost, "/", body, true)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Market model.Market `json:"market"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode created market: %w", err)
	}

	return &resp.Market, nil
}

// PostReview отправляет отзыв с оценкой для указанного рынка.
func (c *Client) PostReview(ctx context.Context, marketID int64, review string, rating int) error {
	body := map[string]any{
		"review": review,
		"rating": rating,
	}
	_, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/%d/review", marketID), body, true)
	return err
}

// Profile возвращает профиль пользователя. Форма ответа определяется сервером.
func (c *Client) Profile(ctx context.Context, userID int64) (json.RawMessage, error) {
	data, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/profiles/%d", userID), nil, true)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// UpdateMyProfile обновляет профиль текущего пользователя.
func (c *Client) UpdateMyProfile(ctx context.Context, profile map[string]any) error {
	_, err := c.do(ctx, http.MethodPut, "/profiles/me", profile, true)
	return err
}

// FollowUser подписывает текущего пользователя на другого пользователя.
func (c *Client) FollowUser(ctx context.Context, userID int64) error {
	_, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/users/%d/follow", userID), nil, true)
	return err
}

// UnfollowUser отменяет подписку на пользователя.
func (c *Client) UnfollowUser(ctx context.Context, userID int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d/follow", userID), nil, true)
	return err
}

// Followers возвращает подписчиков пользователя.
func (c *Client) Followers(ctx context.Context, userID int64) ([]model.User, error) {
	return c.userList(ctx, fmt.Sprintf("/users/%d/followers", userID))
}

// Following возвращает подписки пользователя.
func (c *Client) Following(ctx context.Context, userID int64) ([]model.User, error) {
	return c.userList(ctx, fmt.Sprintf("/users/%d/following", userID))
}

func (c *Client) userList(ctx context.Context, path string) ([]model.User, error) {
	data, err := c.do(ctx, http.MethodGet, path, nil, false)
	if err != nil {
		return nil, err
	}

	var users []model.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decode user list: %w", err)
	}

	return users, nil
}

// FollowMarket подписывает текущего пользователя на рынок.
func (c *Client) FollowMarket(ctx context.Context, marketID int64) error {
	_, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/markets/%d/follow", marketID), nil, true)
	return err
}

// UnfollowMarket отменяет подписку на рынок.
func (c *Client) UnfollowMarket(ctx context.Context, marketID int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/markets/%d/follow", marketID), nil, true)
	return err
}
