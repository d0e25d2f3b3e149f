// Package service реализует бизнес-логику сервиса аренды футбольных полей.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/pitchrent/internal/apperror"
	"github.com/mmeshcher/pitchrent/internal/model"
	"github.com/mmeshcher/pitchrent/internal/notify"
	"github.com/mmeshcher/pitchrent/internal/repository"
)

// Repository описывает контракт доступа к данным, используемый сервисом.
// Операции, меняющие несколько сущностей, выполняются через InTx.
type Repository interface {
	repository.Store
	InTx(ctx context.Context, fn func(repository.Store) error) error
	Close() error
}

// Service содержит бизнес-логику сервиса аренды.
type Service struct {
	repo     Repository
	notifier notify.Notifier
	logger   *zap.Logger
	siteURL  string
	now      func() time.Time
	loc      *time.Location
}

// Option настраивает Service.
type Option func(*Service)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSiteURL задаёт ссылку на сайт, которая подставляется в письма.
func WithSiteURL(url string) Option {
	return func(s *Service) { s.siteURL = url }
}

// WithLocation задаёт часовой пояс, в котором считаются границы месяцев в статистике.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// NewService создаёт новый сервис с указанным репозиторием и уведомителем.
func NewService(repo Repository, notifier notify.Notifier, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		loc:      time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// fail приводит ошибку к apperror.Error. Сбои хранилища логируются с исходной причиной.
func (s *Service) fail(op string, err error) error {
	appErr := apperror.As(err)
	if errors.Is(appErr, apperror.ErrPersistence) {
		s.logger.Error(op+" failed", zap.Error(err))
	}
	return appErr
}

// send отправляет уведомление и сообщает, удалось ли это. Ошибка только логируется.
func (s *Service) send(ctx context.Context, kind string, msg notify.Message) bool {
	if err := s.notifier.Send(ctx, msg); err != nil {
		notificationsFailed.WithLabelValues(kind).Inc()
		s.logger.Warn("notification failed",
			zap.String("kind", kind),
			zap.String("message_id", msg.ID),
			zap.Error(apperror.Notification(err)),
		)
		return false
	}
	return true
}

func notFound(err, sentinel error, resource string, id int64) error {
	if errors.Is(err, sentinel) {
		return apperror.NotFound(resource, id)
	}
	return err
}

func requireActive(p *model.Principal) error {
	if p == nil || !p.IsActive {
		return apperror.Unauthorized("authentication required")
	}
	return nil
}

func requireSuperuser(p *model.Principal) error {
	if err := requireActive(p); err != nil {
		return err
	}
	if !p.IsSuperuser {
		return apperror.Forbidden("superuser required")
	}
	return nil
}
