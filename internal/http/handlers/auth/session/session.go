// Package session реализует HTTP-обработчик, возвращающий текущую сессию.
package session

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/focus-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/focus-tracker/internal/http/response"
)

// Handler отдаёт сведения о сессии запроса.
type Handler struct{}

// New создает новый экземпляр Handler.
func New() *Handler {
	return &Handler{}
}

// ServeHTTP godoc
// @Summary Текущая сессия
// @Description Возвращает пользователя сессии или authenticated=false для анонимного запроса.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Сведения о сессии"
// @Failure 503 {object} response.Response "Список отзыва недоступен"
// @Router /session [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s := middlewarectx.SessionFromContext(r.Context())
	if s == nil {
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"authenticated": false,
		}))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"authenticated": true,
		"username":      s.Username,
		"display_name":  s.DisplayName,
		"expires_at":    s.ExpiresAt,
	}))
}
