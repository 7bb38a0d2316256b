// Package review отправляет отзывы о рынках от имени текущего пользователя.
package review

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/mmeshcher/marketscout-client/internal/api"
	"github.com/mmeshcher/marketscout-client/internal/notice"
	"github.com/mmeshcher/marketscout-client/internal/validation"
)

// API описывает вызов бэкенда для публикации отзыва.
type API interface {
	PostReview(ctx context.Context, marketID int64, review string, rating int) error
}

// Result описывает итог отправки отзыва. RefreshBoard означает, что новый
// отзыв мог изменить оценку рынка и таблицу лидеров нужно перезагрузить.
type Result struct {
	OK           bool
	Mock         bool
	RefreshBoard bool
	Message      string
}

// Submitter отправляет отзывы и публикует временные сообщения о результате.
type Submitter struct {
	api    API
	logger *zap.Logger
	notice *notice.Notice

	mu         sync.Mutex
	submitting bool
}

// NewSubmitter создаёт отправитель отзывов.
func NewSubmitter(a API, logger *zap.Logger) *Submitter {
	return &Submitter{
		api:    a,
		logger: logger,
		notice: notice.New(notice.DefaultTTL),
	}
}

// Submit проверяет форму отзыва и отправляет её на сервер. Неполная форма
// отклоняется локально без сетевого запроса. Недоступный бэкенд не блокирует
// пользователя: отправка считается успешной в демо-режиме.
func (s *Submitter) Submit(ctx context.Context, marketID int64, text string, rating int) Result {
	if !validation.IsValidReview(rating, text) {
		message := "a rating and a review of at least 10 characters are required"
		s.notice.Set(false, message)
		return Result{Message: message}
	}

	s.setSubmitting(true)
	defer s.setSubmitting(false)

	err := s.api.PostReview(ctx, marketID, text, rating)
	switch {
	case err == nil:
		s.notice.Set(true, "Review posted successfully!")
		s.logger.Info("review posted", zap.Int64("marketID", marketID), zap.Int("rating", rating))
		return Result{OK: true, RefreshBoard: true, Message: "Review posted successfully!"}
	case api.IsUnreachable(err):
		s.notice.Set(true, "Review posted! (Demo mode)")
		return Result{OK: true, Mock: true, Message: "Review posted! (Demo mode)"}
	default:
		message := errorText(err)
		s.notice.Set(false, message)
		return Result{Message: message}
	}
}

// Submitting сообщает, выполняется ли отправка прямо сейчас.
func (s *Submitter) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Notice возвращает временное сообщение о результате последней отправки.
func (s *Submitter) Notice() *notice.Notice {
	return s.notice
}

func (s *Submitter) setSubmitting(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = v
}

func errorText(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
