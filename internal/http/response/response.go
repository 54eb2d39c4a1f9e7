// Package response содержит единый формат JSON-ответов HTTP-обработчиков
// и отображение видов ошибок ядра на HTTP-статусы.
package response

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/university-portal/internal/lib/apperr"
)

// Response описывает стандартную структуру JSON-ответа сервера.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"invalid email or password"`
	Details any    `json:"details,omitempty"`
}

// MessageResponse — успешный ответ без данных для Swagger-документации.
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"logged out successfully"`
}

const internalErrorMessage = "internal server error"

// OKWithData возвращает успешный Response с данными.
func OKWithData(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// OKWithMessage возвращает успешный Response с сообщением.
func OKWithMessage(msg string) Response {
	return Response{
		Success: true,
		Message: msg,
	}
}

// Error возвращает Response с ошибкой.
func Error(msg string) Response {
	return Response{
		Success: false,
		Error:   msg,
	}
}

// ValidationError формирует ответ по ошибкам валидации: по одному сообщению на поле.
func ValidationError(errs validator.ValidationErrors) Response {
	return Response{
		Success: false,
		Error:   "validation failed",
		Details: FieldErrors(errs),
	}
}

// FieldErrors переводит ошибки валидатора в map поле -> сообщение.
func FieldErrors(errs validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(errs))
	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			details[err.Field()] = "is a required field"
		case "email":
			details[err.Field()] = "must be a valid email address"
		case "min":
			details[err.Field()] = fmt.Sprintf("must be at least %s characters", err.Param())
		case "max":
			details[err.Field()] = fmt.Sprintf("must be at most %s characters", err.Param())
		case "uuid":
			details[err.Field()] = "must be a valid uuid"
		default:
			details[err.Field()] = "is not valid"
		}
	}
	return details
}

// StatusFor возвращает HTTP-статус для вида ошибки.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindIncorrectPassword, apperr.KindSamePassword:
		return http.StatusBadRequest
	case apperr.KindInvalidCredentials, apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindRoleNotPermitted, apperr.KindTokenInvalid, apperr.KindInsufficientRole,
		apperr.KindRegistrationDisabled:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Fail пишет ошибку в едином формате, подбирая статус по виду ошибки.
// Текст внутренних ошибок попадает в details, только если это разрешено
// через WithDebug.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(apperr.KindOf(err))
	resp := Response{Success: false, Error: internalErrorMessage}

	var appErr *apperr.Error
	if status < http.StatusInternalServerError && errors.As(err, &appErr) {
		resp.Error = appErr.Message
		resp.Details = appErr.Details
	}
	if status >= http.StatusInternalServerError && DebugFromContext(r.Context()) {
		resp.Details = err.Error()
	}

	render.Status(r, status)
	render.JSON(w, r, resp)
}

type debugKey struct{}

// WithDebug возвращает middleware, которое разрешает или запрещает
// показывать клиенту текст внутренних ошибок.
func WithDebug(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), debugKey{}, enabled)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DebugFromContext сообщает, включён ли показ внутренних ошибок.
func DebugFromContext(ctx context.Context) bool {
	enabled, _ := ctx.Value(debugKey{}).(bool)
	return enabled
}
