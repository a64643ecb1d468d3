package cancel_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_reservation: invalid input data")

	// ErrCancelFailed возвращается, когда бэкенд не отменил бронирование
	ErrCancelFailed = errors.New("cancel_reservation: cancellation failed")
)
