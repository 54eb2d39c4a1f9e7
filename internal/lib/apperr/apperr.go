// Package apperr описывает таксономию ошибок ядра аутентификации.
//
// Каждая ошибка имеет вид (Kind), по которому транспортный слой подбирает
// HTTP-статус. Сам пакет про HTTP ничего не знает.
package apperr

import (
	"errors"
	"fmt"
)

// Kind — вид ошибки.
type Kind int

// Виды ошибок. Нулевое значение соответствует внутренней ошибке.
const (
	KindInternal Kind = iota
	KindValidation
	KindInvalidCredentials
	KindIncorrectPassword
	KindRoleNotPermitted
	KindUnauthenticated
	KindTokenInvalid
	KindInsufficientRole
	KindSamePassword
	KindNotFound
	KindRegistrationDisabled
	KindStoreFailure
)

var kindNames = map[Kind]string{
	KindInternal:             "internal",
	KindValidation:           "validation",
	KindInvalidCredentials:   "invalid_credentials",
	KindIncorrectPassword:    "incorrect_password",
	KindRoleNotPermitted:     "role_not_permitted",
	KindUnauthenticated:      "unauthenticated",
	KindTokenInvalid:         "token_invalid",
	KindInsufficientRole:     "insufficient_role",
	KindSamePassword:         "same_password",
	KindNotFound:             "not_found",
	KindRegistrationDisabled: "registration_disabled",
	KindStoreFailure:         "store_failure",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error — ошибка ядра с видом, сообщением для клиента и необязательными деталями.
type Error struct {
	Kind    Kind   // Вид ошибки
	Message string // Сообщение, безопасное для клиента
	Details any    // Детали, например ошибки по полям
	Err     error  // Исходная причина, клиенту не показывается
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is сравнивает ошибки по виду, поэтому errors.Is(err, ErrInvalidCredentials)
// срабатывает и для обёрнутых копий.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New создаёт ошибку заданного вида.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap создаёт ошибку заданного вида поверх исходной причины.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// Validation создаёт ошибку валидации с деталями по полям.
func Validation(msg string, details any) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

// StoreFailure оборачивает ошибку хранилища.
func StoreFailure(err error) *Error {
	return Wrap(KindStoreFailure, "user store unavailable", err)
}

// KindOf возвращает вид ошибки или KindInternal, если ошибка не из этого пакета.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	ErrInvalidCredentials   = New(KindInvalidCredentials, "invalid email or password")
	ErrIncorrectPassword    = New(KindIncorrectPassword, "current password is incorrect")
	ErrRoleNotPermitted     = New(KindRoleNotPermitted, "access denied: this role cannot sign in to the dashboard")
	ErrUnauthenticated      = New(KindUnauthenticated, "authentication required")
	ErrTokenInvalid         = New(KindTokenInvalid, "invalid or expired token")
	ErrInsufficientRole     = New(KindInsufficientRole, "insufficient permissions")
	ErrSamePassword         = New(KindSamePassword, "new password must be different from the current password")
	ErrNotFound             = New(KindNotFound, "user not found")
	ErrRegistrationDisabled = New(KindRegistrationDisabled, "registration is disabled, please contact an administrator")
)
