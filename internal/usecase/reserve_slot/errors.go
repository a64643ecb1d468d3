package reserve_slot

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reserve_slot: invalid input data")

	// ErrReserveFailed возвращается, когда бэкенд не создал бронирование.
	// Оборачивает ошибку шлюза (domain.ErrValidation, domain.ErrNetwork и т.д.)
	ErrReserveFailed = errors.New("reserve_slot: reservation failed")
)
