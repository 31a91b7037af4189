package focustracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/focus-tracker/internal/cache"
	"github.com/magabrotheeeer/focus-tracker/internal/config"
	"github.com/magabrotheeeer/focus-tracker/internal/http/handlers/health"
	"github.com/magabrotheeeer/focus-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/focus-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/focus-tracker/internal/lib/password"
	"github.com/magabrotheeeer/focus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/focus-tracker/internal/metrics"
	"github.com/magabrotheeeer/focus-tracker/internal/migrations"
	"github.com/magabrotheeeer/focus-tracker/internal/rabbitmq"
	"github.com/magabrotheeeer/focus-tracker/internal/services/auth"
	"github.com/magabrotheeeer/focus-tracker/internal/services/focuslog"
	"github.com/magabrotheeeer/focus-tracker/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// EventPublisher публикует доменные события и освобождает свои ресурсы.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
	Close() error
}

// App — HTTP-приложение сервиса.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *storage.Storage
	cache     *cache.Cache
	publisher EventPublisher
	amqpConn  *amqp.Connection
}

// New подключает хранилища, применяет миграции и собирает HTTP-сервер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "focustracker.New"

	db, err := storage.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hasher, err := password.NewHasher(cfg.BcryptCost)
	if err != nil {
		_ = db.Close()
		_ = cacheRedis.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a := &App{
		logger:    logger,
		db:        db,
		cache:     cacheRedis,
		publisher: rabbitmq.NoopPublisher{},
	}
	if cfg.URL != "" {
		if err = a.connectBroker(ctx, cfg.RabbitMQ); err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else {
		logger.Info("rabbitmq url is empty, domain events are disabled")
	}

	metrics.RegisterMetrics(prometheus.DefaultRegisterer)

	authService := auth.NewAuthService(
		db,
		jwt.NewJWTMaker(cfg.SecretKey),
		hasher,
		cacheRedis,
		a.publisher,
		logger,
		auth.Options{
			StorageTimeout: cfg.StorageTimeout,
			SessionTTL:     cfg.SessionTTL(),
		},
	)
	focusLogService := focuslog.NewService(db, cacheRedis, a.publisher, logger, cfg.StorageTimeout)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, RouteDeps{
		Auth:     authService,
		FocusLog: focusLogService,
		Health:   health.New(logger, db, cacheRedis),
		Limiter:  middlewarectx.NewClientRateLimiter(cfg.RPS, cfg.Burst),
		Cookie: middlewarectx.CookieConfig{
			Name:   cfg.CookieName,
			Secure: cfg.SecureCookie,
		},
	})

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return a, nil
}

func (a *App) connectBroker(ctx context.Context, cfg config.RabbitMQ) error {
	conn, err := rabbitmq.Connect(ctx, cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return err
	}
	ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, rabbitmq.GetEventQueues())
	if err != nil {
		_ = conn.Close()
		return err
	}
	a.amqpConn = conn
	a.publisher = rabbitmq.NewPublisher(ch, cfg.Exchange)
	a.logger.Info("rabbitmq publisher ready", slog.String("exchange", cfg.Exchange))
	return nil
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
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
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if err := a.publisher.Close(); err != nil {
		a.logger.Warn("failed to close publisher", sl.Err(err))
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", sl.Err(err))
	}
}
