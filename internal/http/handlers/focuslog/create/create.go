// Package create реализует HTTP-обработчик добавления записи в журнал фокус-сессий.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/focus-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/focus-tracker/internal/http/response"
	"github.com/magabrotheeeer/focus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/focus-tracker/internal/models"
	"github.com/magabrotheeeer/focus-tracker/internal/services/focuslog"
)

// Service описывает интерфейс создания записи.
type Service interface {
	Create(ctx context.Context, session *models.Session, req models.DummyEntry) (int, error)
}

// Handler обрабатывает HTTP-запросы на создание записи.
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
// @Summary Добавить запись в журнал
// @Description Сохраняет самооценку фокус-сессии от имени пользователя сессии. Возвращает ID записи.
// @Tags FocusLog
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyEntry true "Данные записи"
// @Success 201 {object} response.Response "Запись создана"
// @Failure 400 {object} response.Response "Некорректный JSON"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 503 {object} response.Response "Хранилище недоступно"
// @Router /logs [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.focuslog.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyEntry
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	id, err := h.service.Create(r.Context(), middlewarectx.SessionFromContext(r.Context()), req)
	if err != nil {
		var validationErrs validator.ValidationErrors
		switch {
		case errors.Is(err, focuslog.ErrUnauthenticated):
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
		case errors.Is(err, focuslog.ErrValidation) && errors.As(err, &validationErrs):
			log.Info("validation failed", sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(validationErrs))
		case errors.Is(err, focuslog.ErrValidation):
			log.Info("validation failed", sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("date must be in YYYY-MM-DD format"))
		case errors.Is(err, focuslog.ErrServiceUnavailable):
			log.Error("failed to create entry", sl.Err(err))
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("service unavailable"))
		default:
			log.Error("failed to create entry", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create entry"))
		}
		return
	}

	log.Info("entry created", slog.Int("id", id))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
