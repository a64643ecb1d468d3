package domain

import (
	"sort"
	"time"
)

// Reservation represents a user's booking of a slot
type Reservation struct {
	ID        int64
	UserID    int64
	SlotID    int64
	Slot      *Slot // Снимок слота, присланный вместе с бронированием (опционально)
	CreatedAt time.Time
}

// IsUpcoming returns true if the reserved slot has not started yet
func (r *Reservation) IsUpcoming(now time.Time) bool {
	return !r.Slot.IsMalformed() && !r.Slot.HasStarted(now)
}

// ReservationIndex groups a user's reservations by slot
type ReservationIndex map[int64][]*Reservation

// IndexBySlot строит индекс бронирований по слоту.
// Дубликаты для одной пары (пользователь, слот) сохраняются, чтобы их можно было показать в UI.
// Внутри слота бронирования отсортированы от новых к старым.
func IndexBySlot(reservations []*Reservation) ReservationIndex {
	index := make(ReservationIndex, len(reservations))
	for _, r := range reservations {
		if r == nil || r.SlotID == 0 {
			continue
		}
		index[r.SlotID] = append(index[r.SlotID], r)
	}

	for _, list := range index {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		})
	}

	return index
}

// ForSlot returns the reservations for the given slot, newest first
func (idx ReservationIndex) ForSlot(slotID int64) []*Reservation {
	return idx[slotID]
}

// FutureReservations отбирает бронирования, слот которых начинается строго после now
func FutureReservations(reservations []*Reservation, now time.Time) []*Reservation {
	result := make([]*Reservation, 0, len(reservations))
	for _, r := range reservations {
		if r != nil && r.IsUpcoming(now) {
			result = append(result, r)
		}
	}
	return result
}
