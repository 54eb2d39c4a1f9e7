// Package sl содержит вспомогательные функции для формирования
// структурированных полей логгера slog.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
//
// Пример:
//
//	log.Error("failed to load user", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Email возвращает поле с email, к которому относится событие.
func Email(email string) slog.Attr {
	return slog.String("email", email)
}

// UserID возвращает поле с идентификатором пользователя.
func UserID(id string) slog.Attr {
	return slog.String("user_id", id)
}
