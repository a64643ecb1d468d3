package availability

import "errors"

var (
	// ErrRefreshFailed возвращается, когда цикл обновления не смог получить данные.
	// Предыдущий снимок при этом сохраняется.
	ErrRefreshFailed = errors.New("availability: refresh failed")

	// ErrNoSnapshot возвращается, когда данных ещё нет ни одного успешного обновления
	ErrNoSnapshot = errors.New("availability: no snapshot yet")
)
