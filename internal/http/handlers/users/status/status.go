// Package status реализует HTTP-обработчик включения и отключения учётной записи.
//
// Отключённый пользователь теряет доступ сразу: middleware аутентификации
// читает флаг активности из хранилища на каждом запросе.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/university-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/university-portal/internal/http/response"
	"github.com/magabrotheeeer/university-portal/internal/lib/apperr"
	"github.com/magabrotheeeer/university-portal/internal/lib/sl"
	"github.com/magabrotheeeer/university-portal/internal/lib/validation"
	"github.com/magabrotheeeer/university-portal/internal/models"
)

// Request содержит новое состояние учётной записи.
type Request struct {
	Active *bool `json:"active" example:"false"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	SetActive(ctx context.Context, actor models.Identity, id string, active bool) (*models.PublicUser, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Включить или отключить пользователя
// @Tags Users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "UID пользователя"
// @Param request body Request true "Новое состояние"
// @Success 200 {object} response.Response{data=map[string]models.PublicUser} "Пользователь"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Требуется аутентификация"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /users/{id}/status [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.IdentityFromContext(r.Context())
	if !ok {
		log.Error("identity not found in context")
		response.Fail(w, r, apperr.ErrUnauthenticated)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.validate.Var(id, "required,uuid"); err != nil {
		log.Info("invalid user id in url", slog.String("id", id))
		response.Fail(w, r, apperr.Validation("validation failed", map[string]string{"id": "must be a valid uuid"}))
		return
	}

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if req.Active == nil {
		log.Info("validation failed: active is missing")
		response.Fail(w, r, apperr.Validation("validation failed", map[string]string{"active": "is a required field"}))
		return
	}

	user, err := h.service.SetActive(r.Context(), actor, id, *req.Active)
	if err != nil {
		log.Warn("failed to change user status", sl.UserID(id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": user,
	}))
}
