// Package auth содержит бизнес-логику входа в панель управления,
// смены пароля и чтения профиля текущего пользователя.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/magabrotheeeer/university-portal/internal/lib/apperr"
	"github.com/magabrotheeeer/university-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/university-portal/internal/lib/metrics"
	"github.com/magabrotheeeer/university-portal/internal/lib/password"
	"github.com/magabrotheeeer/university-portal/internal/lib/sl"
	"github.com/magabrotheeeer/university-portal/internal/models"
	"github.com/magabrotheeeer/university-portal/internal/services/audit"
	"github.com/magabrotheeeer/university-portal/internal/storage"
)

// MinPasswordLength задаёт минимальную длину нового пароля в символах.
const MinPasswordLength = 6

// UserRepository описывает доступ к учётным записям, нужный сервису.
type UserRepository interface {
	// GetUserByEmail возвращает пользователя по нормализованному email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID возвращает пользователя по UID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// TouchUpdatedAt отмечает вход и возвращает новое значение updated_at.
	TouchUpdatedAt(ctx context.Context, id string) (time.Time, error)
	// UpdatePassword сохраняет новый хэш пароля.
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// LoginResult содержит результат успешного входа.
type LoginResult struct {
	User  models.PublicUser `json:"user"`
	Token string            `json:"token"`
}

// AuthService отвечает за вход, смену пароля и профиль пользователя.
type AuthService struct {
	log      *slog.Logger
	users    UserRepository
	jwtMaker jwt.Maker
	events   audit.Publisher
	metrics  *metrics.AuthMetrics
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(
	log *slog.Logger,
	users UserRepository,
	jwtMaker jwt.Maker,
	events audit.Publisher,
	m *metrics.AuthMetrics,
) *AuthService {
	return &AuthService{
		log:      log,
		users:    users,
		jwtMaker: jwtMaker,
		events:   events,
		metrics:  m,
	}
}

// Login проверяет учётные данные и выпускает сессионный токен.
//
// Неизвестный email, отключённая учётная запись и неверный пароль дают
// одну и ту же ошибку ErrInvalidCredentials. Роль проверяется до пароля:
// студент получает ErrRoleNotPermitted независимо от пароля.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*LoginResult, error) {
	const op = "services.auth.Login"
	email = models.NormalizeEmail(email)
	log := s.log.With(slog.String("op", op), sl.Email(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.loginRejected(ctx, log, email, "", metrics.LoginInvalidCredentials, "unknown_email")
			return nil, apperr.ErrInvalidCredentials
		}
		s.metrics.LoginAttempt(metrics.LoginError)
		log.Error("failed to load user", sl.Err(err))
		return nil, apperr.StoreFailure(fmt.Errorf("%s: %w", op, err))
	}

	if !user.Active {
		s.loginRejected(ctx, log, email, user.ID, metrics.LoginInvalidCredentials, "inactive")
		return nil, apperr.ErrInvalidCredentials
	}
	if !user.Role.CanSignIn() {
		s.loginRejected(ctx, log, email, user.ID, metrics.LoginRoleNotPermitted, "role_not_permitted")
		return nil, apperr.ErrRoleNotPermitted
	}
	if !password.Verify(rawPassword, user.PasswordHash) {
		s.loginRejected(ctx, log, email, user.ID, metrics.LoginInvalidCredentials, "wrong_password")
		return nil, apperr.ErrInvalidCredentials
	}

	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.metrics.LoginAttempt(metrics.LoginError)
		log.Error("failed to generate token", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updatedAt, err := s.users.TouchUpdatedAt(ctx, user.ID)
	if err != nil {
		log.Warn("failed to record login time", sl.UserID(user.ID), sl.Err(err))
	} else {
		user.UpdatedAt = updatedAt
	}

	s.metrics.LoginAttempt(metrics.LoginSuccess)
	s.events.Publish(ctx, audit.Event{Type: audit.EventLoginSucceeded, UserID: user.ID, Email: user.Email})
	log.Info("login succeeded", sl.UserID(user.ID), slog.String("role", user.Role.String()))

	return &LoginResult{User: user.Public(), Token: token}, nil
}

func (s *AuthService) loginRejected(ctx context.Context, log *slog.Logger, email, userID, result, reason string) {
	s.metrics.LoginAttempt(result)
	s.events.Publish(ctx, audit.Event{Type: audit.EventLoginFailed, UserID: userID, Email: email, Reason: reason})
	log.Warn("login rejected", slog.String("reason", reason))
}

// ChangePassword меняет пароль пользователя после проверки текущего.
// Новый токен не выпускается, ранее выданные остаются действительными.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	const op = "services.auth.ChangePassword"
	log := s.log.With(slog.String("op", op), sl.UserID(userID))

	if utf8.RuneCountInString(newPassword) < MinPasswordLength {
		return apperr.Validation("validation failed", map[string]string{
			"newPassword": fmt.Sprintf("must be at least %d characters", MinPasswordLength),
		})
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return apperr.ErrNotFound
		}
		log.Error("failed to load user", sl.Err(err))
		return apperr.StoreFailure(fmt.Errorf("%s: %w", op, err))
	}

	if !password.Verify(currentPassword, user.PasswordHash) {
		log.Warn("current password mismatch")
		return apperr.ErrIncorrectPassword
	}
	if password.Verify(newPassword, user.PasswordHash) {
		return apperr.ErrSamePassword
	}

	hash, err := password.GetHash(newPassword)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return apperr.Validation("validation failed", map[string]string{
				"newPassword": "is too long",
			})
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return apperr.ErrNotFound
		}
		log.Error("failed to update password", sl.Err(err))
		return apperr.StoreFailure(fmt.Errorf("%s: %w", op, err))
	}

	s.events.Publish(ctx, audit.Event{Type: audit.EventPasswordChanged, UserID: user.ID, Email: user.Email})
	log.Info("password changed")
	return nil
}

// Profile возвращает публичное представление пользователя.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.PublicUser, error) {
	const op = "services.auth.Profile"

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.StoreFailure(fmt.Errorf("%s: %w", op, err))
	}
	public := user.Public()
	return &public, nil
}
