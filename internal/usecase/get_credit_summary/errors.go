package get_credit_summary

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_credit_summary: invalid input data")

	// ErrUnavailable возвращается, когда не удалось получить данные пользователя
	ErrUnavailable = errors.New("get_credit_summary: credits unavailable")
)
