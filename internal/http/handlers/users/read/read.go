// Package read реализует HTTP-обработчик получения учётной записи по UID.
//
// Handler извлекает UID из URL-параметров, проверяет его формат
// и возвращает публичное представление пользователя.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/university-portal/internal/http/response"
	"github.com/magabrotheeeer/university-portal/internal/lib/apperr"
	"github.com/magabrotheeeer/university-portal/internal/lib/sl"
	"github.com/magabrotheeeer/university-portal/internal/lib/validation"
	"github.com/magabrotheeeer/university-portal/internal/models"
)

// Handler обрабатывает запросы на получение пользователя.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис администрирования пользователей
	validate *validator.Validate // Валидатор UID из URL
}

// Service описывает чтение учётной записи.
type Service interface {
	Get(ctx context.Context, id string) (*models.PublicUser, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Получить пользователя
// @Tags Users
// @Produce  json
// @Security BearerAuth
// @Param id path string true "UID пользователя"
// @Success 200 {object} response.Response{data=map[string]models.PublicUser} "Пользователь"
// @Failure 400 {object} response.ErrorResponse "Некорректный UID"
// @Failure 401 {object} response.ErrorResponse "Требуется аутентификация"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /users/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if err := h.validate.Var(id, "required,uuid"); err != nil {
		log.Info("invalid user id in url", slog.String("id", id))
		response.Fail(w, r, apperr.Validation("validation failed", map[string]string{"id": "must be a valid uuid"}))
		return
	}

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Warn("failed to read user", sl.UserID(id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Debug("user read", sl.UserID(id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": user,
	}))
}
