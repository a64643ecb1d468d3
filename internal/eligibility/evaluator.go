// Package eligibility решает, можно ли сейчас забронировать или отменить класс.
// Все функции чистые: текущее время передаётся параметром.
package eligibility

import (
	"time"

	"github.com/m04kA/bitforce-booking/internal/domain"
)

// Evaluate вычисляет доступность бронирования и отмены для слота.
//
// Порядок проверок для бронирования (побеждает первая сработавшая):
//  1. ALREADY_BOOKED - у пользователя уже есть бронирование на этот слот
//  2. OVERLAP        - слот пересекается с другим будущим бронированием пользователя
//  3. CUTOFF_CLOSED  - дедлайн (начало - cutoff) уже наступил
//  4. NO_CREDITS     - баланс кредитов <= 0
//  5. NO_CAPACITY    - свободных мест нет
//
// Отмена доступна, только если бронирование есть и дедлайн ещё не наступил.
// Для слота без времени начала обе операции запрещены с причиной MALFORMED_SLOT.
func Evaluate(
	slot *domain.Slot,
	user *domain.UserCredit,
	reservationsForSlot []*domain.Reservation,
	futureReservations []*domain.Reservation,
	now time.Time,
) domain.Decision {
	if slot.IsMalformed() {
		return domain.Decision{
			BlockReason:       domain.ReasonMalformedSlot,
			CancelBlockReason: domain.ReasonMalformedSlot,
		}
	}

	decision := domain.Decision{
		BlockReason:       domain.ReasonNone,
		CancelBlockReason: domain.ReasonNone,
	}

	booked := newestReservation(reservationsForSlot)
	beforeCutoff := slot.IsBeforeCutoff(now)

	if booked != nil {
		id := booked.ID
		decision.ReservationID = &id
		decision.Duplicate = countValid(reservationsForSlot) > 1

		if beforeCutoff {
			decision.CanCancel = true
		} else {
			decision.CancelBlockReason = domain.ReasonCutoffClosed
		}
	}

	decision.BlockReason = reserveBlockReason(slot, user, booked != nil, futureReservations, beforeCutoff, now)
	decision.CanReserve = decision.BlockReason == domain.ReasonNone

	return decision
}

// reserveBlockReason возвращает первую причину, блокирующую бронирование
func reserveBlockReason(
	slot *domain.Slot,
	user *domain.UserCredit,
	booked bool,
	futureReservations []*domain.Reservation,
	beforeCutoff bool,
	now time.Time,
) domain.BlockReason {
	switch {
	case booked:
		return domain.ReasonAlreadyBooked
	case domain.HasConflict(slot, futureReservations, now):
		return domain.ReasonOverlap
	case !beforeCutoff:
		return domain.ReasonCutoffClosed
	case !user.HasCredits():
		return domain.ReasonNoCredits
	case slot.AvailableCapacity() <= 0:
		return domain.ReasonNoCapacity
	default:
		return domain.ReasonNone
	}
}

// State выводит состояние слота для отображения
func State(slot *domain.Slot, decision domain.Decision, now time.Time) domain.SlotState {
	switch {
	case slot.IsMalformed():
		return domain.StateClosed
	case slot.HasStarted(now):
		return domain.StateHidden
	case !slot.IsBeforeCutoff(now):
		return domain.StateClosed
	case decision.ReservationID != nil:
		return domain.StateReserved
	default:
		return domain.StateAvailable
	}
}

func newestReservation(reservations []*domain.Reservation) *domain.Reservation {
	var newest *domain.Reservation
	for _, r := range reservations {
		if r == nil {
			continue
		}
		if newest == nil || r.CreatedAt.After(newest.CreatedAt) {
			newest = r
		}
	}
	return newest
}

func countValid(reservations []*domain.Reservation) int {
	count := 0
	for _, r := range reservations {
		if r != nil {
			count++
		}
	}
	return count
}
