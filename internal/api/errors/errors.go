// Пакет errors — ответы JSON-эндпоинтов с ошибками.
// Единый формат: {"error": {"code": "...", "message": "..."}}.
// Все JSON-ответы с ошибками должны использовать WriteError.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/love4code/poolnplay/internal/service"
)

// Машиночитаемые коды ошибок.
const (
	CodeValidationError  = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeConflict         = "CONFLICT"
	CodeImageDecode      = "IMAGE_DECODE_ERROR"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeInternalError    = "INTERNAL_ERROR"
)

// errorBody — структура тела ответа ошибки.
type errorBody struct {
	Error errorDetail `json:"error"`
}

// errorDetail — детали ошибки.
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError записывает ответ ошибки в стандартном формате.
// statusCode — HTTP статус-код, code — машиночитаемый код, message — описание.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// --- Конструкторы для типичных ошибок ---

// ValidationError — 400 некорректные входные данные.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeValidationError, message)
}

// NotFound — 404 ресурс не найден.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

// Unauthorized — 401 требуется аутентификация.
func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

// Conflict — 409 конфликт (дублирующийся ресурс).
func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, CodeConflict, message)
}

// StoreUnavailable — 503 хранилище недоступно.
func StoreUnavailable(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusServiceUnavailable, CodeStoreUnavailable, message)
}

// InternalError — 500 внутренняя ошибка.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeInternalError, message)
}

// FromService отвечает ошибкой, соответствующей ошибке сервисного слоя.
// Текст внутренних ошибок клиенту не раскрывается.
func FromService(w http.ResponseWriter, err error) {
	var (
		verr *service.ValidationError
		ierr *service.ImageError
	)
	switch {
	case stderrors.As(err, &verr):
		ValidationError(w, verr.Message)
	case stderrors.As(err, &ierr):
		WriteError(w, http.StatusBadRequest, CodeImageDecode, "Could not process image: "+ierr.Filename)
	case stderrors.Is(err, service.ErrDecode):
		WriteError(w, http.StatusBadRequest, CodeImageDecode, "Could not process image")
	case stderrors.Is(err, service.ErrNotFound):
		NotFound(w, "Not found")
	case stderrors.Is(err, service.ErrConflict):
		Conflict(w, "Already exists")
	case stderrors.Is(err, service.ErrStoreUnavailable):
		StoreUnavailable(w, "Storage is temporarily unavailable")
	default:
		InternalError(w, "Internal server error")
	}
}
