// Package role реализует HTTP-обработчик смены роли пользователя.
package role

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

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

// Request содержит новую роль пользователя.
type Request struct {
	Role string `json:"role" validate:"required" example:"TEACHER" enums:"ADMIN,TEACHER,STUDENT"`
}

// Handler обрабатывает смену роли.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает смену роли.
type Service interface {
	SetRole(ctx context.Context, actor models.Identity, id string, role models.Role) (*models.PublicUser, error)
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
// @Summary Сменить роль пользователя
// @Tags Users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "UID пользователя"
// @Param request body Request true "Новая роль"
// @Success 200 {object} response.Response{data=map[string]models.PublicUser} "Пользователь"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Требуется аутентификация"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /users/{id}/role [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.role"

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
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	newRole, err := models.ParseRole(req.Role)
	if err != nil {
		log.Info("unknown role", slog.String("role", req.Role))
		response.Fail(w, r, apperr.Validation("validation failed", map[string]string{
			"role": "must be one of " + strings.Join(roleNames(), ", "),
		}))
		return
	}

	user, err := h.service.SetRole(r.Context(), actor, id, newRole)
	if err != nil {
		log.Warn("failed to change user role", sl.UserID(id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": user,
	}))
}

func roleNames() []string {
	roles := models.Roles()
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.String())
	}
	return names
}
