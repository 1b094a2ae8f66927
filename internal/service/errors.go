// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import (
	"errors"
	"fmt"

	"github.com/love4code/poolnplay/internal/repository"
)

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrConflict — конфликт (дублирующийся ресурс).
	ErrConflict = errors.New("конфликт — ресурс уже существует")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrStoreUnavailable — хранилище недоступно.
	ErrStoreUnavailable = errors.New("хранилище недоступно")
	// ErrDecode — загруженный файл не является изображением.
	ErrDecode = errors.New("не удалось обработать изображение")
)

// ValidationError — ошибка валидации с сообщением для пользователя.
// errors.Is(err, ErrValidation) == true.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is позволяет сравнивать через errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ImageError — загруженный файл не удалось декодировать.
// errors.Is(err, ErrDecode) == true.
type ImageError struct {
	Filename string
	Cause    error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrDecode.Error(), e.Filename, e.Cause)
}

// Is позволяет сравнивать через errors.Is(err, ErrDecode).
func (e *ImageError) Is(target error) bool {
	return target == ErrDecode
}

func (e *ImageError) Unwrap() error {
	return e.Cause
}

// newValidationError создаёт ValidationError с форматированным сообщением.
func newValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// storeError переводит ошибки репозитория в ошибки сервисного слоя.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %s", ErrConflict, op)
	case errors.Is(err, repository.ErrUnavailable):
		return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
