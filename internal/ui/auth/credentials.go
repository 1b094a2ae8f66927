// credentials.go — проверка логина и пароля администратора.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials — неверный логин или пароль.
var ErrInvalidCredentials = errors.New("неверный логин или пароль")

// Credentials — учётные данные единственного администратора.
type Credentials struct {
	username string
	hash     []byte
}

// NewCredentials создаёт учётные данные. Если passwordHash задан (bcrypt),
// используется он, иначе хешируется password.
func NewCredentials(username, password, passwordHash string) (*Credentials, error) {
	if username == "" {
		return nil, errors.New("имя администратора не задано")
	}

	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("некорректный bcrypt-хеш пароля: %w", err)
		}
		return &Credentials{username: username, hash: []byte(passwordHash)}, nil
	}

	if password == "" {
		return nil, errors.New("пароль администратора не задан")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}
	return &Credentials{username: username, hash: hash}, nil
}

// Verify проверяет пару логин/пароль.
func (c *Credentials) Verify(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1
	// bcrypt выполняется всегда, чтобы время ответа не зависело от логина
	passErr := bcrypt.CompareHashAndPassword(c.hash, []byte(password))
	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}
