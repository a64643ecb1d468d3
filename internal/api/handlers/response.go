package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m04kA/bitforce-booking/internal/domain"
)

const (
	msgInternalError  = "внутренняя ошибка сервера"
	msgUnauthorized   = "требуется авторизация"
	msgForbidden      = "доступ запрещен"
	msgNotFound       = "не найдено"
	msgRejected       = "операция отклонена сервером"
	msgGatewayDown    = "сервер расписания недоступен"
	msgActionBlocked  = "действие недоступно"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// RespondJSON сериализует ответ в JSON
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set(headerContentType, contentTypeJSON)
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter) {
	RespondError(w, http.StatusUnauthorized, msgUnauthorized)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = msgForbidden
	}
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = msgNotFound
	}
	RespondError(w, http.StatusNotFound, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondBlocked 409 с причиной локального отказа
func RespondBlocked(w http.ResponseWriter, reason domain.BlockReason) {
	RespondJSON(w, http.StatusConflict, ErrorResponse{Error: msgActionBlocked, Reason: string(reason)})
}

// DecodeJSON читает тело запроса; неизвестные поля считаются ошибкой
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

type detailer interface {
	Detail() string
}

// RespondGatewayError переводит ошибки источника данных в HTTP коды.
// Возвращает false, если ошибка не относится к источнику данных.
func RespondGatewayError(w http.ResponseWriter, err error) bool {
	var blocked *domain.BlockedError
	if errors.As(err, &blocked) {
		RespondBlocked(w, blocked.Reason)
		return true
	}

	message := ""
	var d detailer
	if errors.As(err, &d) {
		message = d.Detail()
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		if message == "" {
			message = msgRejected
		}
		RespondError(w, http.StatusUnprocessableEntity, message)
	case errors.Is(err, domain.ErrNotFound):
		RespondNotFound(w, message)
	case errors.Is(err, domain.ErrForbidden):
		RespondForbidden(w, message)
	case errors.Is(err, domain.ErrNetwork):
		RespondError(w, http.StatusBadGateway, msgGatewayDown)
	default:
		return false
	}
	return true
}
