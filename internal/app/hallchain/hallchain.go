// Package hallchain собирает HTTP-приложение учёта пользователей:
// хранилище, кэш, очередь аудита, JWT и маршруты.
package hallchain

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/nasifhossain/DAO-Hall/internal/cache"
	"github.com/nasifhossain/DAO-Hall/internal/config"
	"github.com/nasifhossain/DAO-Hall/internal/lib/jwt"
	"github.com/nasifhossain/DAO-Hall/internal/lib/rabbitmq"
	"github.com/nasifhossain/DAO-Hall/internal/migrations"
	userservice "github.com/nasifhossain/DAO-Hall/internal/services/user"
	"github.com/nasifhossain/DAO-Hall/internal/storage"
)

type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *storage.Storage
	cache      *cache.Cache
	rabbitConn *amqp.Connection
	rabbitCh   *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	rabbitCh, err := rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetAuditQueues())
	if err != nil {
		return nil, err
	}
	auditPublisher := rabbitmq.NewPublisher(rabbitCh)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	userService := userservice.New(db, jwtMaker, cacheRedis, auditPublisher, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, userService, jwtMaker)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		cache:      cacheRedis,
		rabbitConn: rabbitConn,
		rabbitCh:   rabbitCh,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.rabbitCh.Close(); cerr != nil {
			a.logger.Warn("failed to close rabbit channel", slog.Any("err", cerr))
		}
		if cerr := a.rabbitConn.Close(); cerr != nil {
			a.logger.Warn("failed to close rabbit connection", slog.Any("err", cerr))
		}
		if cerr := a.cache.Db.Close(); cerr != nil {
			a.logger.Warn("failed to close redis client", slog.Any("err", cerr))
		}
		a.db.DB.Close()
		return err
	}
}
