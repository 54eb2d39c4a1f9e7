package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRole возвращается при попытке получить роль из неизвестной строки.
var ErrUnknownRole = errors.New("unknown role")

// Role — закрытый набор ролей пользователей портала.
// Значения создаются только внутри пакета, снаружи доступны
// RoleAdmin, RoleTeacher и RoleStudent; строки переводятся в роль через ParseRole.
type Role struct {
	name string
}

var (
	// RoleAdmin — администратор, полный доступ к панели управления.
	RoleAdmin = Role{name: "ADMIN"}
	// RoleTeacher — преподаватель, ограниченный доступ к панели управления.
	RoleTeacher = Role{name: "TEACHER"}
	// RoleStudent — студент, вход в панель управления запрещён.
	RoleStudent = Role{name: "STUDENT"}
)

// Roles возвращает все известные роли.
func Roles() []Role {
	return []Role{RoleAdmin, RoleTeacher, RoleStudent}
}

// ParseRole переводит строку в роль. Регистр и пробелы по краям не учитываются.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case RoleAdmin.name:
		return RoleAdmin, nil
	case RoleTeacher.name:
		return RoleTeacher, nil
	case RoleStudent.name:
		return RoleStudent, nil
	}
	return Role{}, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r Role) String() string {
	return r.name
}

// IsZero сообщает, что роль не задана.
func (r Role) IsZero() bool {
	return r.name == ""
}

// CanSignIn сообщает, разрешён ли этой роли вход в панель управления.
func (r Role) CanSignIn() bool {
	return r == RoleAdmin || r == RoleTeacher
}

// MarshalText нужен для сериализации роли в JSON строкой.
func (r Role) MarshalText() ([]byte, error) {
	if r.IsZero() {
		return nil, ErrUnknownRole
	}
	return []byte(r.name), nil
}

// UnmarshalText разбирает роль из JSON-строки.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Scan читает роль из колонки базы данных.
func (r *Role) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	case nil:
		return fmt.Errorf("%w: null", ErrUnknownRole)
	default:
		return fmt.Errorf("models.Role.Scan: unsupported type %T", src)
	}
}

// Value записывает роль в базу данных.
func (r Role) Value() (driver.Value, error) {
	if r.IsZero() {
		return nil, ErrUnknownRole
	}
	return r.name, nil
}
