// Package logout реализует HTTP-обработчик выхода.
//
// Сервер не хранит сессий: выход лишь подтверждает клиенту, что токен
// можно удалить. Сам токен остаётся действительным до истечения срока.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/university-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/university-portal/internal/http/response"
	"github.com/magabrotheeeer/university-portal/internal/lib/sl"
)

type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
	}
}

// ServeHTTP godoc
// @Summary Выход
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.MessageResponse "Выход выполнен"
// @Failure 401 {object} response.ErrorResponse "Требуется аутентификация"
// @Failure 403 {object} response.ErrorResponse "Недействительный токен"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	if identity, ok := middlewarectx.IdentityFromContext(r.Context()); ok {
		log.Info("user logged out", sl.UserID(identity.ID))
	}

	render.JSON(w, r, response.OKWithMessage("logged out successfully"))
}
