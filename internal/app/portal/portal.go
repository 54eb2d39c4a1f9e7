package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/university-portal/internal/config"
	"github.com/magabrotheeeer/university-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/university-portal/internal/lib/metrics"
	"github.com/magabrotheeeer/university-portal/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/university-portal/internal/lib/sl"
	"github.com/magabrotheeeer/university-portal/internal/migrations"
	"github.com/magabrotheeeer/university-portal/internal/services/audit"
	authservice "github.com/magabrotheeeer/university-portal/internal/services/auth"
	usersservice "github.com/magabrotheeeer/university-portal/internal/services/users"
	"github.com/magabrotheeeer/university-portal/internal/storage"
)

const (
	shutdownTimeout = 15 * time.Second
	amqpRetries     = 5
	amqpRetryDelay  = 2 * time.Second
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	amqp   *amqp.Connection
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.portal.New"

	db, err := storage.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	jwtMaker, err := jwt.NewJWTMaker(cfg.JWTSecretKey)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	events, conn, err := newEventPublisher(cfg, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	authMetrics := metrics.NewAuthMetrics(registry)

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Logger:     logger,
		Auth:       authservice.NewAuthService(logger, db, jwtMaker, events, authMetrics),
		Users:      usersservice.New(logger, db, events),
		Tokens:     jwtMaker,
		Identities: db,
		Health:     db,
		Metrics:    authMetrics,
		Registry:   registry,
		Debug:      cfg.ExposeInternalErrors(),
	})

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
		amqp:   conn,
	}, nil
}

// newEventPublisher подключается к RabbitMQ, если задан URL,
// иначе события безопасности только пишутся в лог.
func newEventPublisher(cfg *config.Config, logger *slog.Logger) (audit.Publisher, *amqp.Connection, error) {
	if cfg.RabbitMQ.URL == "" {
		logger.Info("rabbitmq is not configured, security events go to log only")
		return audit.NewLogPublisher(logger), nil, nil
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, amqpRetries, amqpRetryDelay)
	if err != nil {
		return nil, nil, err
	}
	ch, err := rabbitmq.SetupExchange(conn, cfg.Exchange)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	logger.Info("security events are published to rabbitmq", slog.String("exchange", cfg.Exchange))
	return audit.NewAMQPPublisher(logger, ch, cfg.Exchange), conn, nil
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
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close storage", sl.Err(err))
	}
}
