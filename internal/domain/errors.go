package domain

import "errors"

// Ошибки на границе с внешним источником данных (REST бэкенд или БД).
// В отличие от BlockReason, эти ошибки всегда возвращаются вызывающему коду.
var (
	// ErrNetwork возвращается при недоступности источника данных
	ErrNetwork = errors.New("gateway: network error")

	// ErrValidation возвращается, когда бэкенд отклонил операцию (места, кредиты, пересечение)
	ErrValidation = errors.New("gateway: validation error")

	// ErrNotFound возвращается, когда сущность не найдена
	ErrNotFound = errors.New("gateway: not found")

	// ErrForbidden возвращается, когда операция запрещена политикой бэкенда
	ErrForbidden = errors.New("gateway: forbidden")
)

// ErrBlocked возвращается, когда действие запрещено локальными правилами до обращения к бэкенду
var ErrBlocked = errors.New("booking: action blocked")

// BlockedError несёт причину локального отказа
type BlockedError struct {
	Reason BlockReason
}

func (e *BlockedError) Error() string {
	return ErrBlocked.Error() + ": " + string(e.Reason)
}

func (e *BlockedError) Unwrap() error {
	return ErrBlocked
}
