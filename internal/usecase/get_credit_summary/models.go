package get_credit_summary

import (
	"time"

	"github.com/m04kA/bitforce-booking/internal/domain"
)

// Request модель запроса сводки по кредитам
type Request struct {
	Session      domain.Session
	ForceRefresh bool
}

// Response сводка по кредитам. Только для отображения: доступность бронирования
// по-прежнему определяется балансом бэкенда.
type Response struct {
	UserID     int64
	Username   string
	Total      int        // Баланс, присланный бэкендом
	Used       int        // Классы, уже начавшиеся внутри периода
	Available  int        // Total - Used в пределах [0, 9999]
	PeriodFrom *time.Time // nil, если дата окончания неизвестна
	PeriodTo   *time.Time
	Expired    bool
}
