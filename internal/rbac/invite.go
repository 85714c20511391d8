package rbac

import (
	"crypto/rand"
	"encoding/base64"
)

// Длина инвайт-кода в байтах до кодирования; 12 байт дают 16 символов
// URL-safe base64. Вероятность коллизии считается пренебрежимой,
// проверка уникальности по существующим кодам не выполняется.
const inviteCodeBytes = 12

func newInviteCode() (string, error) {
	buf := make([]byte, inviteCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
