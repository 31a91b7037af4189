// Package register реализует HTTP-обработчик регистрации пользователя.
//
// Обработчик только декодирует JSON и передаёт значения в сервис аутентификации:
// проверка полей выполняется сервисом, ошибки сервиса переводятся в HTTP-статусы.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/focus-tracker/internal/http/response"
	"github.com/magabrotheeeer/focus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/focus-tracker/internal/services/auth"
)

// Request — структура входных данных для регистрации.
type Request struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// LogValue скрывает пароль в логах.
func (r Request) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("username", r.Username),
		slog.String("display_name", r.DisplayName),
	)
}

// Service описывает интерфейс регистрации.
type Service interface {
	Register(ctx context.Context, username, displayName, password string) error
}

// Handler обрабатывает HTTP-запросы регистрации.
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
// @Summary Регистрация пользователя
// @Description Создаёт учётную запись. Имя пользователя и отображаемое имя сохраняются без пробелов по краям. Вход не выполняется.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового пользователя"
// @Success 200 {object} response.Response "Пользователь создан"
// @Failure 400 {object} response.Response "Некорректный JSON"
// @Failure 409 {object} response.Response "Имя пользователя занято"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 429 {object} response.Response "Слишком много запросов"
// @Failure 503 {object} response.Response "Хранилище недоступно"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	err := h.service.Register(r.Context(), req.Username, req.DisplayName, req.Password)
	if err != nil {
		var validationErrs validator.ValidationErrors
		switch {
		case errors.Is(err, auth.ErrValidation) && errors.As(err, &validationErrs):
			log.Info("validation failed", sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(validationErrs))
		case errors.Is(err, auth.ErrValidation):
			log.Info("validation failed", sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("invalid registration data"))
		case errors.Is(err, auth.ErrDuplicateUser):
			log.Info("username already taken", slog.String("username", req.Username))
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("username already exists"))
		case errors.Is(err, auth.ErrServiceUnavailable):
			log.Error("registration unavailable", sl.Err(err))
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("service unavailable"))
		default:
			log.Error("failed to register user", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register user"))
		}
		return
	}

	username := auth.NormalizeName(req.Username)
	log.Info("user registered", slog.String("username", username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message":      "user created successfully",
		"username":     username,
		"display_name": auth.NormalizeName(req.DisplayName),
	}))
}
