// Package main запускает HTTP-сервер сервиса аренды футбольных полей.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/pitchrent/internal/config"
	"github.com/mmeshcher/pitchrent/internal/handler"
	"github.com/mmeshcher/pitchrent/internal/middleware"
	"github.com/mmeshcher/pitchrent/internal/notify"
	"github.com/mmeshcher/pitchrent/internal/repository"
	"github.com/mmeshcher/pitchrent/internal/service"
)

func newNotifier(cfg *config.Config, logger *zap.Logger) notify.Notifier {
	switch {
	case cfg.AMQPURL != "":
		logger.Info("notifications via amqp", zap.String("queue", notify.EmailQueue))
		return notify.NewAMQPNotifier(cfg.AMQPURL, logger)
	case cfg.NotifyServiceAddress != "":
		logger.Info("notifications via http", zap.String("addr", cfg.NotifyServiceAddress))
		return notify.NewHTTPNotifier(cfg.NotifyServiceAddress)
	default:
		logger.Warn("no notification transport configured, messages are only logged")
		return notify.NewLogNotifier(logger)
	}
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}

	svc := service.NewService(repo, newNotifier(cfg, logger), logger,
		service.WithSiteURL(cfg.SiteURL),
		service.WithLocation(cfg.Location()),
	)
	defer svc.Close()

	var limiter *middleware.RateLimiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		limiter = middleware.NewRateLimiter(rdb, "ratelimit:booking", cfg.BookingRateLimit, time.Minute, logger)
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.AuthSecret, repo, logger)
	h := handler.NewHandler(svc, logger, authMiddleware, limiter)

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           h.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Ежемесячный отчёт администраторам
	g.Go(func() error {
		svc.StartMonthlyReports(ctx, cfg.ReportInterval)
		return nil
	})

	g.Go(func() error {
		sugar.Infow("starting pitchrent server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
