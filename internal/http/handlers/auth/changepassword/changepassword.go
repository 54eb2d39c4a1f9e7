// Package changepassword реализует HTTP-обработчик смены пароля текущего пользователя.
//
// Новый пароль проверяется на длину, текущий пароль сверяется сервисом.
// Выданные ранее токены остаются действительными, новый токен не выпускается.
package changepassword

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/university-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/university-portal/internal/http/response"
	"github.com/magabrotheeeer/university-portal/internal/lib/apperr"
	"github.com/magabrotheeeer/university-portal/internal/lib/sl"
	"github.com/magabrotheeeer/university-portal/internal/lib/validation"
)

// Request описывает входные данные для смены пароля.
type Request struct {
	CurrentPassword string `json:"currentPassword" validate:"required" example:"old-secret"`
	NewPassword     string `json:"newPassword" validate:"required,min=6" example:"new-secret"`
}

// LogValue не даёт паролям попасть в лог.
func (r Request) LogValue() slog.Value {
	return slog.StringValue("[redacted]")
}

// Handler обрабатывает смену пароля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает бизнес-логику смены пароля.
type Service interface {
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Смена пароля
// @Tags Auth
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Текущий и новый пароль"
// @Success 200 {object} response.MessageResponse "Пароль изменён"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации или неверный текущий пароль"
// @Failure 401 {object} response.ErrorResponse "Требуется аутентификация"
// @Failure 403 {object} response.ErrorResponse "Недействительный токен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/change-password [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.changepassword"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, ok := middlewarectx.IdentityFromContext(r.Context())
	if !ok {
		log.Error("identity not found in context")
		response.Fail(w, r, apperr.ErrUnauthenticated)
		return
	}
	log = log.With(sl.UserID(identity.ID))

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.ChangePassword(r.Context(), identity.ID, req.CurrentPassword, req.NewPassword); err != nil {
		log.Warn("password change failed", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("password changed")
	render.JSON(w, r, response.OKWithMessage("password changed successfully"))
}
