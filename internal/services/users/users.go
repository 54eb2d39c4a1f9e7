// Package users содержит администрирование учётных записей:
// просмотр, включение и отключение, смену роли и заведение
// учётных записей из CLI, так как самостоятельная регистрация отключена.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/university-portal/internal/lib/apperr"
	"github.com/magabrotheeeer/university-portal/internal/lib/password"
	"github.com/magabrotheeeer/university-portal/internal/lib/sl"
	"github.com/magabrotheeeer/university-portal/internal/models"
	"github.com/magabrotheeeer/university-portal/internal/services/audit"
	"github.com/magabrotheeeer/university-portal/internal/storage"
)

// Repository описывает доступ к учётным записям, нужный сервису.
type Repository interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user models.User) (string, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateStatus(ctx context.Context, id string, active bool) (*models.User, error)
	UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error)
}

// Service реализует администрирование пользователей.
type Service struct {
	log    *slog.Logger
	repo   Repository
	events audit.Publisher
}

// New создаёт сервис администрирования пользователей.
func New(log *slog.Logger, repo Repository, events audit.Publisher) *Service {
	return &Service{
		log:    log,
		repo:   repo,
		events: events,
	}
}

// Get возвращает пользователя по UID.
func (s *Service) Get(ctx context.Context, id string) (*models.PublicUser, error) {
	const op = "services.users.Get"
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(op, err)
	}
	public := u.Public()
	return &public, nil
}

// SetActive включает или отключает учётную запись.
// Администратор не может отключить сам себя.
func (s *Service) SetActive(ctx context.Context, actor models.Identity, id string, active bool) (*models.PublicUser, error) {
	const op = "services.users.SetActive"
	if actor.ID == id && !active {
		return nil, apperr.Validation("you cannot deactivate your own account", nil)
	}

	u, err := s.repo.UpdateStatus(ctx, id, active)
	if err != nil {
		return nil, mapStoreError(op, err)
	}

	s.events.Publish(ctx, audit.Event{
		Type:    audit.EventUserStatusChanged,
		UserID:  u.ID,
		Email:   u.Email,
		ActorID: actor.ID,
		Reason:  fmt.Sprintf("active=%t", active),
	})
	s.log.Info("user status changed",
		slog.String("op", op), sl.UserID(u.ID), slog.String("actor_id", actor.ID), slog.Bool("active", active))

	public := u.Public()
	return &public, nil
}

// SetRole меняет роль пользователя.
// Администратор не может лишить сам себя роли ADMIN.
func (s *Service) SetRole(ctx context.Context, actor models.Identity, id string, role models.Role) (*models.PublicUser, error) {
	const op = "services.users.SetRole"
	if role.IsZero() {
		return nil, apperr.Validation("validation failed", map[string]string{"role": "is a required field"})
	}
	if actor.ID == id && role != models.RoleAdmin {
		return nil, apperr.Validation("you cannot remove your own admin role", nil)
	}

	u, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, mapStoreError(op, err)
	}

	s.events.Publish(ctx, audit.Event{
		Type:    audit.EventUserRoleChanged,
		UserID:  u.ID,
		Email:   u.Email,
		ActorID: actor.ID,
		Reason:  "role=" + role.String(),
	})
	s.log.Info("user role changed",
		slog.String("op", op), sl.UserID(u.ID), slog.String("actor_id", actor.ID), slog.String("role", role.String()))

	public := u.Public()
	return &public, nil
}

// EnsureAccount создаёт учётную запись с указанной ролью либо, если email занят,
// сбрасывает её пароль, роль и включает её. Возвращает UID и признак создания.
func (s *Service) EnsureAccount(ctx context.Context, email, rawPassword string, role models.Role) (string, bool, error) {
	const op = "services.users.EnsureAccount"
	email = models.NormalizeEmail(email)
	if email == "" {
		return "", false, apperr.Validation("validation failed", map[string]string{"email": "is a required field"})
	}
	if role.IsZero() {
		return "", false, apperr.Validation("validation failed", map[string]string{"role": "is a required field"})
	}

	hash, err := password.GetHash(rawPassword)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, storage.ErrUserNotFound):
		id, err := s.repo.CreateUser(ctx, models.User{
			Email:        email,
			PasswordHash: &hash,
			Role:         role,
			Active:       true,
		})
		if err != nil {
			return "", false, mapStoreError(op, err)
		}
		s.log.Info("account created", slog.String("op", op), sl.UserID(id), sl.Email(email))
		return id, true, nil
	case err != nil:
		return "", false, mapStoreError(op, err)
	}

	if err := s.repo.UpdatePassword(ctx, existing.ID, hash); err != nil {
		return "", false, mapStoreError(op, err)
	}
	if existing.Role != role {
		if _, err := s.repo.UpdateRole(ctx, existing.ID, role); err != nil {
			return "", false, mapStoreError(op, err)
		}
	}
	if !existing.Active {
		if _, err := s.repo.UpdateStatus(ctx, existing.ID, true); err != nil {
			return "", false, mapStoreError(op, err)
		}
	}
	s.log.Info("account reset", slog.String("op", op), sl.UserID(existing.ID), sl.Email(email))
	return existing.ID, false, nil
}

func mapStoreError(op string, err error) error {
	if errors.Is(err, storage.ErrUserNotFound) {
		return apperr.ErrNotFound
	}
	return apperr.StoreFailure(fmt.Errorf("%s: %w", op, err))
}
