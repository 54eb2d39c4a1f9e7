package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/university-portal/internal/models"
)

const uniqueViolation = "23505"

type rowScanner interface {
	Scan(dest ...any) error
}

// validID отсекает строки, которые не являются UUID, до обращения к базе.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var hash sql.NullString
	if err := row.Scan(&u.ID, &u.Email, &hash, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if hash.Valid {
		u.PasswordHash = &hash.String
	}
	return u, nil
}

// GetIdentity читает только поля, нужные для аутентификации запроса.
func (s *Storage) GetIdentity(ctx context.Context, id string) (*models.UserStatus, error) {
	const op = "storage.GetIdentity"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if !validID(id) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}

	query := `SELECT uid, email, role, is_active
			  FROM users
			  WHERE uid = $1`
	st := &models.UserStatus{}
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&st.ID, &st.Email, &st.Role, &st.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

// GetUserByID возвращает пользователя по его UID.
func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if !validID(id) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}

	query := `SELECT uid, email, password_hash, role, is_active, created_at, updated_at
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email. Email должен быть уже нормализован.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, password_hash, role, is_active, created_at, updated_at
			  FROM users
			  WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// TouchUpdatedAt обновляет updated_at и возвращает новое значение.
func (s *Storage) TouchUpdatedAt(ctx context.Context, id string) (time.Time, error) {
	const op = "storage.TouchUpdatedAt"
	select {
	case <-ctx.Done():
		return time.Time{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if !validID(id) {
		return time.Time{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}

	query := `UPDATE users
			  SET updated_at = NOW()
			  WHERE uid = $1
			  RETURNING updated_at`
	var updatedAt time.Time
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return updatedAt, nil
}

// UpdatePassword сохраняет новый хэш пароля.
func (s *Storage) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const op = "storage.UpdatePassword"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if !validID(id) {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}

	query := `UPDATE users
			  SET password_hash = $1, updated_at = NOW()
			  WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// UpdateStatus включает или отключает учётную запись и возвращает её новое состояние.
func (s *Storage) UpdateStatus(ctx context.Context, id string, active bool) (*models.User, error) {
	const op = "storage.UpdateStatus"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if !validID(id) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}

	query := `UPDATE users
			  SET is_active = $1, updated_at = NOW()
			  WHERE uid = $2
			  RETURNING uid, email, password_hash, role, is_active, created_at, updated_at`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, active, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateRole меняет роль пользователя и возвращает его новое состояние.
func (s *Storage) UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	const op = "storage.UpdateRole"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if !validID(id) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}

	query := `UPDATE users
			  SET role = $1, updated_at = NOW()
			  WHERE uid = $2
			  RETURNING uid, email, password_hash, role, is_active, created_at, updated_at`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, role, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя и возвращает его UID.
// Если UID не задан, он генерируется.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query := `INSERT INTO users (uid, email, password_hash, role, is_active)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		user.ID, models.NormalizeEmail(user.Email), user.PasswordHash, user.Role, user.Active).Scan(&newID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}
