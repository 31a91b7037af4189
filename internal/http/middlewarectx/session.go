// Package middlewarectx содержит HTTP middleware сервиса: загрузку сессии
// в контекст запроса, проверку аутентификации, ограничение частоты запросов
// и сбор метрик.
//
// Сессия восстанавливается из cookie или заголовка Authorization: Bearer
// и передаётся дальше только через контекст запроса.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/focus-tracker/internal/http/response"
	"github.com/magabrotheeeer/focus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/focus-tracker/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// SessionKey — ключ текущей сессии в контексте.
const SessionKey Key = "session"

// SessionLoader восстанавливает сессию по токену.
type SessionLoader interface {
	CurrentSession(ctx context.Context, token string) (*models.Session, error)
}

// TokenFromRequest извлекает токен сессии: сначала из заголовка
// Authorization: Bearer, затем из cookie cookieName.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// WithSession возвращает контекст с сессией.
func WithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

// SessionFromContext возвращает сессию запроса или nil для анонимного пользователя.
func SessionFromContext(ctx context.Context) *models.Session {
	session, _ := ctx.Value(SessionKey).(*models.Session)
	return session
}

// SessionMiddleware загружает сессию в контекст запроса. Запросы без сессии
// проходят дальше как анонимные; недоступность хранилища отзывов даёт 503.
func SessionMiddleware(loader SessionLoader, cookieName string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			token := TokenFromRequest(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := loader.CurrentSession(r.Context(), token)
			if err != nil {
				log.Error("failed to load session",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.Err(err),
				)
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, response.Error("service unavailable"))
				return
			}
			if session == nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// RequireSession пропускает только аутентифицированные запросы, остальным отвечает 401.
func RequireSession(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if SessionFromContext(r.Context()) == nil {
				log.Info("unauthenticated request rejected",
					slog.String("path", r.URL.Path),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
