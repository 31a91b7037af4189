// Package focustracker собирает HTTP-приложение сервиса: маршруты, зависимости и сервер.
package focustracker

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/focus-tracker/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/focus-tracker/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/focus-tracker/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/focus-tracker/internal/http/handlers/auth/session"
	"github.com/magabrotheeeer/focus-tracker/internal/http/handlers/focuslog/create"
	"github.com/magabrotheeeer/focus-tracker/internal/http/handlers/focuslog/dashboard"
	"github.com/magabrotheeeer/focus-tracker/internal/http/handlers/focuslog/list"
	"github.com/magabrotheeeer/focus-tracker/internal/http/middlewarectx"
)

// AuthService — операции аутентификации, нужные маршрутам.
type AuthService interface {
	register.Service
	login.Service
	logout.Service
	middlewarectx.SessionLoader
}

// FocusLogService — операции журнала, нужные маршрутам.
type FocusLogService interface {
	create.Service
	list.Service
	dashboard.Service
}

// RouteDeps зависимости обработчиков.
type RouteDeps struct {
	Auth     AuthService
	FocusLog FocusLogService
	Health   http.Handler
	Limiter  *middlewarectx.ClientRateLimiter
	Cookie   middlewarectx.CookieConfig
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps RouteDeps) {
	// Глобальные middleware. Лимит частоты считается по адресу соединения,
	// X-Forwarded-For не учитывается.
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.MetricsMiddleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Вход, регистрация и выход не зависят от списка отзыва сессий
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(deps.Limiter, logger))
			r.Post("/register", register.New(logger, deps.Auth).ServeHTTP)
			r.Post("/login", login.New(logger, deps.Auth, deps.Cookie).ServeHTTP)
		})
		r.Post("/logout", logout.New(logger, deps.Auth, deps.Cookie).ServeHTTP)

		// Группа с загрузкой сессии
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(deps.Auth, deps.Cookie.Name, logger))
			r.Get("/session", session.New().ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireSession(logger))
				r.Post("/logs", create.New(logger, deps.FocusLog).ServeHTTP)
				r.Get("/logs", list.New(logger, deps.FocusLog).ServeHTTP)
				r.Get("/dashboard", dashboard.New(logger, deps.FocusLog).ServeHTTP)
			})
		})
	})

	r.Method(http.MethodGet, "/health", deps.Health)
	r.Handle("/metrics", promhttp.Handler())
}
