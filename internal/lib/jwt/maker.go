// Package jwt выпускает и проверяет сессионные токены портала (JWT, HS256).
//
// Токен содержит идентификатор пользователя в sub, а также email и роль.
// Email и роль в токене носят справочный характер: права запроса
// определяются по актуальной записи пользователя в хранилище.
package jwt

import (
	"errors"
	"time"

	"github.com/magabrotheeeer/university-portal/internal/models"
)

// TokenTTL задаёт срок жизни сессионного токена. Не настраивается.
const TokenTTL = 7 * 24 * time.Hour

var (
	// ErrInvalidToken оборачивает любую ошибку проверки токена.
	ErrInvalidToken = errors.New("invalid token")
	// ErrEmptySecret возвращается, если секрет подписи не задан.
	ErrEmptySecret = errors.New("jwt secret key is empty")
)

// Maker описывает выпуск и проверку токенов.
type Maker interface {
	GenerateToken(userID, email string, role models.Role) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует Maker на общем секрете HS256.
// После создания не изменяется и безопасен для конкурентного использования.
type MakerImpl struct {
	secretKey []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewJWTMaker создаёт MakerImpl. Пустой секрет недопустим.
func NewJWTMaker(secretKey string) (*MakerImpl, error) {
	if secretKey == "" {
		return nil, ErrEmptySecret
	}
	return &MakerImpl{
		secretKey: []byte(secretKey),
		tokenTTL:  TokenTTL,
		now:       time.Now,
	}, nil
}
