// Package middlewarectx содержит HTTP middleware аутентификации и проверки ролей.
//
// JWTMiddleware проверяет bearer-токен, загружает актуальную запись пользователя
// и кладёт в контекст запроса его удостоверение. RequireRole пропускает дальше
// только пользователей с разрешёнными ролями.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/university-portal/internal/http/response"
	"github.com/magabrotheeeer/university-portal/internal/lib/apperr"
	"github.com/magabrotheeeer/university-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/university-portal/internal/lib/metrics"
	"github.com/magabrotheeeer/university-portal/internal/lib/sl"
	"github.com/magabrotheeeer/university-portal/internal/models"
	"github.com/magabrotheeeer/university-portal/internal/storage"
)

const bearerPrefix = "Bearer "

// TokenParser проверяет сессионный токен.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// IdentityProvider читает актуальное состояние пользователя.
type IdentityProvider interface {
	GetIdentity(ctx context.Context, id string) (*models.UserStatus, error)
}

type identityKey struct{}

// WithIdentity возвращает контекст с удостоверением пользователя.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext возвращает удостоверение, положенное JWTMiddleware.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(models.Identity)
	return id, ok
}

// JWTMiddleware возвращает middleware, который аутентифицирует запрос по заголовку Authorization.
//
// Нет заголовка или токена: 401. Токен не прошёл проверку: 403.
// Пользователь удалён или отключён: 401. Ошибка хранилища: 500.
// Email и роль берутся из хранилища, claims токена для этого не используются.
func JWTMiddleware(log *slog.Logger, tokens TokenParser, users IdentityProvider, m *metrics.AuthMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				log.Info("missing or malformed authorization header")
				m.Rejection(metrics.RejectMissingToken)
				response.Fail(w, r, apperr.ErrUnauthenticated)
				return
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
			if tokenStr == "" {
				log.Info("empty bearer token")
				m.Rejection(metrics.RejectMissingToken)
				response.Fail(w, r, apperr.ErrUnauthenticated)
				return
			}

			claims, err := tokens.ParseToken(tokenStr)
			if err != nil {
				log.Warn("token rejected", sl.Err(err))
				m.Rejection(metrics.RejectInvalidToken)
				response.Fail(w, r, apperr.ErrTokenInvalid)
				return
			}

			status, err := users.GetIdentity(r.Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, storage.ErrUserNotFound) {
					log.Warn("token subject not found", sl.UserID(claims.Subject))
					m.Rejection(metrics.RejectUnknownUser)
					response.Fail(w, r, apperr.ErrUnauthenticated)
					return
				}
				log.Error("failed to load identity", sl.UserID(claims.Subject), sl.Err(err))
				m.Rejection(metrics.RejectStoreFailure)
				response.Fail(w, r, apperr.StoreFailure(err))
				return
			}
			if !status.Active {
				log.Warn("account is inactive", sl.UserID(status.ID))
				m.Rejection(metrics.RejectInactiveUser)
				response.Fail(w, r, apperr.ErrUnauthenticated)
				return
			}

			ctx := WithIdentity(r.Context(), status.Identity())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
