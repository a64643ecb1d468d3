package get_class_board

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_class_board: invalid input data")

	// ErrBoardUnavailable возвращается, когда обновить доску не удалось и показать нечего
	ErrBoardUnavailable = errors.New("get_class_board: board unavailable")
)
