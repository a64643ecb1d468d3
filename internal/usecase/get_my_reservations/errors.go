package get_my_reservations

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_my_reservations: invalid input data")

	// ErrUnavailable возвращается, когда не удалось получить бронирования
	ErrUnavailable = errors.New("get_my_reservations: reservations unavailable")
)
