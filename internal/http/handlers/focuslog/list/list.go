// Package list реализует HTTP-обработчик получения последних записей журнала.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/focus-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/focus-tracker/internal/http/response"
	"github.com/magabrotheeeer/focus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/focus-tracker/internal/models"
	"github.com/magabrotheeeer/focus-tracker/internal/services/focuslog"
)

// Service описывает интерфейс получения записей.
type Service interface {
	Recent(ctx context.Context, session *models.Session, limit int) ([]*models.Entry, error)
}

// Handler обрабатывает HTTP-запросы на получение списка записей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Последние записи журнала
// @Description Возвращает последние записи пользователя, новые первыми.
// @Tags FocusLog
// @Produce  json
// @Security BearerAuth
// @Param limit query int false "Количество записей (по умолчанию 10, не больше 100)"
// @Success 200 {object} response.Response "Список записей"
// @Failure 400 {object} response.Response "limit не является числом"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 503 {object} response.Response "Хранилище недоступно"
// @Router /logs [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.focuslog.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			log.Info("invalid limit", slog.String("limit", raw))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("limit must be an integer"))
			return
		}
		limit = n
	}

	entries, err := h.service.Recent(r.Context(), middlewarectx.SessionFromContext(r.Context()), limit)
	if err != nil {
		switch {
		case errors.Is(err, focuslog.ErrUnauthenticated):
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
		case errors.Is(err, focuslog.ErrServiceUnavailable):
			log.Error("failed to list entries", sl.Err(err))
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("service unavailable"))
		default:
			log.Error("failed to list entries", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list entries"))
		}
		return
	}

	log.Info("entries listed", slog.Int("count", len(entries)))
	render.JSON(w, r, response.StatusOKWithData(entries))
}
