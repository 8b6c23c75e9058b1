// Package radiohost собирает основное HTTP-приложение: хранилище, кэш,
// очередь уведомлений, хранилище миксов, платёжный клиент и роутер.
package radiohost

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/radio-hosting/internal/cache"
	"github.com/magabrotheeeer/radio-hosting/internal/config"
	"github.com/magabrotheeeer/radio-hosting/internal/lib/jwt"
	"github.com/magabrotheeeer/radio-hosting/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/radio-hosting/internal/migrations"
	"github.com/magabrotheeeer/radio-hosting/internal/paymentprovider"
	authservice "github.com/magabrotheeeer/radio-hosting/internal/services/auth"
	"github.com/magabrotheeeer/radio-hosting/internal/services/namepolicy"
	stationservice "github.com/magabrotheeeer/radio-hosting/internal/services/station"
	subscriptionservice "github.com/magabrotheeeer/radio-hosting/internal/services/subscription"
	"github.com/magabrotheeeer/radio-hosting/internal/storage/mixstore"
	"github.com/magabrotheeeer/radio-hosting/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и ресурсы, которые нужно закрыть при остановке.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New создает новый экземпляр приложения.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		return nil, err
	}

	mixes, err := mixstore.New(cfg.MixStorage)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	publisher := rabbitmq.NewConfirmationPublisher(ch)
	authService := authservice.NewAuthService(db, jwtMaker, publisher, cfg.PublicBaseURL, logger)

	policy := namepolicy.New(db)
	stationService := stationservice.NewStationService(db, db, mixes, policy, cacheRedis, cfg.CDNDomain, logger)

	providerClient := paymentprovider.NewClient(cfg.PaymentAPIURL, cfg.PaymentSecretKey)
	subscriptionService := subscriptionservice.NewSubscriptionService(db, providerClient, cfg.PublicBaseURL, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, stationService, subscriptionService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста.
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
		if closeErr := a.ch.Close(); closeErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", closeErr))
		}
		if closeErr := a.conn.Close(); closeErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
