package gym

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/bitforce-booking/internal/domain"
)

var (
	// ErrTransaction возвращается при ошибках работы с транзакцией
	ErrTransaction = errors.New("gym.repository: transaction error")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("gym.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("gym.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("gym.repository: failed to scan row")

	// ErrSlotFull возвращается, когда в классе не осталось мест
	ErrSlotFull = errors.New("gym.repository: no places left")

	// ErrNoCredits возвращается, когда у пользователя нет кредитов
	ErrNoCredits = errors.New("gym.repository: no credits left")

	// ErrAlreadyBooked возвращается при повторном бронировании того же класса
	ErrAlreadyBooked = errors.New("gym.repository: slot already booked")
)

// Коды ошибок PostgreSQL
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgSerializationFail   = "40001"
)

// mapError переводит ошибку драйвера в ошибку домена, сохраняя исходную
func mapError(kind error, op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, op)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %w: %s", domain.ErrValidation, ErrAlreadyBooked, op)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s: %s", domain.ErrNotFound, op, pqErr.Constraint)
		case pgSerializationFail:
			return fmt.Errorf("%w: %w: %s: %v", domain.ErrNetwork, ErrTransaction, op, err)
		}
	}

	return fmt.Errorf("%w: %w: %s: %v", domain.ErrNetwork, kind, op, err)
}
