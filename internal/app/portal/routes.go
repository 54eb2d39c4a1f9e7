// Package portal собирает HTTP-приложение портала: маршруты, зависимости и сервер.
package portal

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/university-portal/internal/http/handlers/auth/changepassword"
	"github.com/magabrotheeeer/university-portal/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/university-portal/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/university-portal/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/university-portal/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/university-portal/internal/http/handlers/health"
	"github.com/magabrotheeeer/university-portal/internal/http/handlers/users/read"
	"github.com/magabrotheeeer/university-portal/internal/http/handlers/users/role"
	"github.com/magabrotheeeer/university-portal/internal/http/handlers/users/status"
	"github.com/magabrotheeeer/university-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/university-portal/internal/http/response"
	"github.com/magabrotheeeer/university-portal/internal/lib/metrics"
	authservice "github.com/magabrotheeeer/university-portal/internal/services/auth"
	usersservice "github.com/magabrotheeeer/university-portal/internal/services/users"
)

// Deps содержит зависимости, из которых строятся маршруты.
type Deps struct {
	Logger     *slog.Logger
	Auth       *authservice.AuthService
	Users      *usersservice.Service
	Tokens     middlewarectx.TokenParser
	Identities middlewarectx.IdentityProvider
	Health     health.Pinger
	Metrics    *metrics.AuthMetrics
	Registry   *prometheus.Registry
	Debug      bool // отдавать клиенту текст внутренних ошибок
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	logger := d.Logger

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		response.WithDebug(d.Debug),
	)

	r.Get("/healthz", health.New(logger, d.Health).ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/login", login.New(logger, d.Auth).ServeHTTP)
		r.Post("/auth/register", register.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(logger, d.Tokens, d.Identities, d.Metrics))

			r.Get("/auth/me", me.New(logger, d.Auth).ServeHTTP)
			r.Put("/auth/change-password", changepassword.New(logger, d.Auth).ServeHTTP)
			r.Post("/auth/logout", logout.New(logger).ServeHTTP)

			r.Route("/users/{id}", func(r chi.Router) {
				r.With(middlewarectx.AdminOrTeacher(logger, d.Metrics)).
					Get("/", read.New(logger, d.Users).ServeHTTP)
				r.With(middlewarectx.AdminOnly(logger, d.Metrics)).
					Patch("/status", status.New(logger, d.Users).ServeHTTP)
				r.With(middlewarectx.AdminOnly(logger, d.Metrics)).
					Patch("/role", role.New(logger, d.Users).ServeHTTP)
			})
		})
	})

	if d.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{Registry: d.Registry}))
	}
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
