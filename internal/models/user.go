// Package models содержит доменные модели портала: учётную запись пользователя,
// её публичное представление и удостоверение аутентифицированного запроса.
package models

import (
	"strings"
	"time"
)

// User представляет учётную запись пользователя в хранилище.
type User struct {
	ID           string    // Уникальный идентификатор (UUID)
	Email        string    // Email в нижнем регистре, уникален
	PasswordHash *string   // bcrypt-хэш; nil, если пароль ещё не задан
	Role         Role      // Роль пользователя
	Active       bool      // Отключённые учётные записи не могут войти
	CreatedAt    time.Time // Дата создания
	UpdatedAt    time.Time // Дата последнего изменения или входа
}

// PublicUser — представление пользователя, которое можно отдавать клиенту.
// Хэш пароля сюда никогда не попадает.
type PublicUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role" swaggertype:"string" enums:"ADMIN,TEACHER,STUDENT"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public возвращает публичное представление пользователя.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserStatus содержит минимальный набор полей, который читает middleware
// аутентификации при каждом защищённом запросе.
type UserStatus struct {
	ID     string
	Email  string
	Role   Role
	Active bool
}

// Identity описывает удостоверение аутентифицированного запроса.
// Строится из актуальной записи хранилища, а не из claims токена.
type Identity struct {
	ID    string
	Email string
	Role  Role
}

// Identity возвращает удостоверение для активной учётной записи.
func (s *UserStatus) Identity() Identity {
	return Identity{ID: s.ID, Email: s.Email, Role: s.Role}
}

// NormalizeEmail приводит email к виду, в котором он хранится.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
