package cancel_reservation

import "github.com/m04kA/bitforce-booking/internal/domain"

// Request модель запроса на отмену бронирования
type Request struct {
	Session       domain.Session
	ReservationID int64
}

// Response модель ответа на отмену
type Response struct {
	ReservationID int64
	Credits       *int // Баланс после синхронизации (nil, если синхронизация не удалась)
}
