package availability

import (
	"time"

	"github.com/m04kA/bitforce-booking/internal/domain"
)

// Триггеры обновления
const (
	TriggerManual = "manual"
	TriggerTimer  = "timer"
)

// Snapshot результат одного завершённого цикла обновления.
// После публикации не изменяется, читатели могут использовать его без блокировок.
type Snapshot struct {
	Seq            uint64
	FetchedAt      time.Time
	Filter         domain.SlotFilter
	User           *domain.UserCredit
	Slots          []*domain.Slot        // Видимые слоты дня, отсортированы по началу
	MyReservations []*domain.Reservation // Все бронирования текущего пользователя
}

// FindSlot ищет слот среди видимых
func (s *Snapshot) FindSlot(slotID int64) *domain.Slot {
	for _, slot := range s.Slots {
		if slot.ID == slotID {
			return slot
		}
	}
	return nil
}

// FindReservation ищет бронирование пользователя по ID
func (s *Snapshot) FindReservation(reservationID int64) *domain.Reservation {
	for _, r := range s.MyReservations {
		if r.ID == reservationID {
			return r
		}
	}
	return nil
}
