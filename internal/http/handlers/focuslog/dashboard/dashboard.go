// Package dashboard реализует HTTP-обработчик панели статистики.
//
// Фильтры передаются параметрами запроса productivity и mood; каждый параметр
// можно повторять или перечислять значения через запятую.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/focus-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/focus-tracker/internal/http/response"
	"github.com/magabrotheeeer/focus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/focus-tracker/internal/models"
	"github.com/magabrotheeeer/focus-tracker/internal/services/focuslog"
)

// Service описывает интерфейс построения статистики.
type Service interface {
	Dashboard(ctx context.Context, session *models.Session, filter models.DashboardFilter) (*models.Dashboard, error)
}

// Handler обрабатывает HTTP-запросы панели статистики.
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
// @Summary Панель статистики
// @Description Строит статистику по последним 100 записям пользователя с фильтрами по продуктивности и настроению.
// @Tags FocusLog
// @Produce  json
// @Security BearerAuth
// @Param productivity query []string false "Productive, Neutral, Distracted" collectionFormat(csv)
// @Param mood query []string false "Low, Okay, Good, Great" collectionFormat(csv)
// @Success 200 {object} response.Response "Статистика"
// @Failure 400 {object} response.Response "Неизвестное значение фильтра"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 503 {object} response.Response "Хранилище недоступно"
// @Router /dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.focuslog.dashboard"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query()
	filter := models.DashboardFilter{
		Productivity: splitValues(query["productivity"]),
		Mood:         splitValues(query["mood"]),
	}

	dashboard, err := h.service.Dashboard(r.Context(), middlewarectx.SessionFromContext(r.Context()), filter)
	if err != nil {
		switch {
		case errors.Is(err, focuslog.ErrUnauthenticated):
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
		case errors.Is(err, focuslog.ErrValidation):
			log.Info("invalid filter", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, focuslog.ErrServiceUnavailable):
			log.Error("failed to build dashboard", sl.Err(err))
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("service unavailable"))
		default:
			log.Error("failed to build dashboard", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to build dashboard"))
		}
		return
	}

	render.JSON(w, r, response.StatusOKWithData(dashboard))
}

// splitValues разворачивает повторяющиеся и перечисленные через запятую значения.
func splitValues(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
