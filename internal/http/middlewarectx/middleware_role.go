package middlewarectx

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/university-portal/internal/http/response"
	"github.com/magabrotheeeer/university-portal/internal/lib/apperr"
	"github.com/magabrotheeeer/university-portal/internal/lib/metrics"
	"github.com/magabrotheeeer/university-portal/internal/lib/sl"
	"github.com/magabrotheeeer/university-portal/internal/models"
)

// RequireRole пропускает запрос, только если роль пользователя входит в roles.
// Должен стоять после JWTMiddleware: без удостоверения в контексте отвечает 401.
func RequireRole(log *slog.Logger, m *metrics.AuthMetrics, roles ...models.Role) func(http.Handler) http.Handler {
	allowed := slices.Clone(roles)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireRole"

			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				m.Rejection(metrics.RejectMissingToken)
				response.Fail(w, r, apperr.ErrUnauthenticated)
				return
			}
			if !slices.Contains(allowed, identity.Role) {
				log.Warn("insufficient role",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.UserID(identity.ID),
					slog.String("role", identity.Role.String()),
				)
				m.Rejection(metrics.RejectInsufficientRole)
				response.Fail(w, r, apperr.ErrInsufficientRole)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly пропускает только администраторов.
func AdminOnly(log *slog.Logger, m *metrics.AuthMetrics) func(http.Handler) http.Handler {
	return RequireRole(log, m, models.RoleAdmin)
}

// AdminOrTeacher пропускает администраторов и преподавателей.
func AdminOrTeacher(log *slog.Logger, m *metrics.AuthMetrics) func(http.Handler) http.Handler {
	return RequireRole(log, m, models.RoleAdmin, models.RoleTeacher)
}
