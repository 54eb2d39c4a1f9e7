// Package password реализует хеширование и проверку паролей с помощью bcrypt.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost задаёт стоимость bcrypt для всех новых хэшей.
const Cost = 10

// ErrTooLong возвращается для паролей длиннее 72 байт.
var ErrTooLong = bcrypt.ErrPasswordTooLong

// GetHash возвращает bcrypt-хэш пароля.
//
// bcrypt не принимает пароли длиннее 72 байт, в этом случае возвращается ошибка.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает bcrypt-хэш с введённым паролем.
//
// Возвращает nil, если пароль соответствует хэшу, иначе ошибку.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Verify проверяет пароль против сохранённого хэша.
//
// Отсутствующий или пустой хэш, как и повреждённый, даёт false.
// Функция не возвращает ошибок и не паникует.
func Verify(plaintext string, storedHash *string) bool {
	if storedHash == nil || *storedHash == "" {
		return false
	}
	return CompareHash(*storedHash, plaintext) == nil
}
