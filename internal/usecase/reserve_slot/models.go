package reserve_slot

import (
	"time"

	"github.com/m04kA/bitforce-booking/internal/domain"
)

// Request модель запроса на бронирование слота
type Request struct {
	Session domain.Session
	SlotID  int64
}

// Response модель ответа с созданным бронированием
type Response struct {
	ReservationID int64
	SlotID        int64
	CreatedAt     time.Time

	// Состояние после повторной синхронизации (nil, если синхронизация не удалась)
	Credits *int
}
