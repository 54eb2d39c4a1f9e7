// Package register реализует HTTP-обработчик самостоятельной регистрации.
//
// Регистрация отключена: учётные записи заводит администратор,
// поэтому обработчик всегда отвечает 403 и тело запроса не читает.
package register

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/university-portal/internal/http/response"
	"github.com/magabrotheeeer/university-portal/internal/lib/apperr"
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
// @Summary Регистрация (отключена)
// @Description Всегда возвращает 403. Учётные записи создаёт администратор.
// @Tags Auth
// @Produce  json
// @Failure 403 {object} response.ErrorResponse "Регистрация отключена"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	h.log.Info("registration attempt rejected",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	response.Fail(w, r, apperr.ErrRegistrationDisabled)
}
