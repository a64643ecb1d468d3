package gymapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/bitforce-booking/internal/domain"
)

var (
	// ErrInternal возвращается при внутренних ошибках клиента (не удалось собрать запрос)
	ErrInternal = errors.New("gymapi client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от бэкенда
	ErrInvalidResponse = errors.New("gymapi client: invalid response")
)

// APIError ответ бэкенда с кодом ошибки.
// Разворачивается в ошибку домена: domain.ErrValidation, domain.ErrForbidden, domain.ErrNotFound, domain.ErrNetwork.
type APIError struct {
	Operation  string
	StatusCode int
	Message    string // detail или non_field_errors[0] из ответа
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gymapi %s: status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("gymapi %s: status %d: %s", e.Operation, e.StatusCode, e.Message)
}

// Unwrap возвращает ошибку домена, соответствующую статусу
func (e *APIError) Unwrap() error {
	return statusError(e.StatusCode)
}

// Detail сообщение бэкенда для пользователя
func (e *APIError) Detail() string {
	return e.Message
}

func statusError(status int) error {
	switch status {
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return domain.ErrValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	default:
		return domain.ErrNetwork
	}
}
