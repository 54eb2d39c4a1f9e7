// Package me реализует HTTP-обработчик получения профиля текущего пользователя.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/university-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/university-portal/internal/http/response"
	"github.com/magabrotheeeer/university-portal/internal/lib/apperr"
	"github.com/magabrotheeeer/university-portal/internal/lib/sl"
	"github.com/magabrotheeeer/university-portal/internal/models"
)

// Handler возвращает профиль аутентифицированного пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает чтение профиля.
type Service interface {
	Profile(ctx context.Context, userID string) (*models.PublicUser, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Профиль текущего пользователя
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=map[string]models.PublicUser} "Профиль"
// @Failure 401 {object} response.ErrorResponse "Требуется аутентификация"
// @Failure 403 {object} response.ErrorResponse "Недействительный токен"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

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

	user, err := h.service.Profile(r.Context(), identity.ID)
	if err != nil {
		log.Warn("failed to load profile", sl.UserID(identity.ID), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": user,
	}))
}
