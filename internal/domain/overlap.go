package domain

import "time"

// Overlaps проверяет пересечение полуоткрытых интервалов [aStart, aEnd) и [bStart, bEnd)
// Интервалы, которые только граничат друг с другом, НЕ пересекаются
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// HasConflict returns true if the candidate slot overlaps any reservation
// whose slot starts strictly after now. Reservations without a slot snapshot are skipped.
func HasConflict(candidate *Slot, reservations []*Reservation, now time.Time) bool {
	if candidate.IsMalformed() {
		return false
	}

	candidateStart := candidate.Start
	candidateEnd := candidate.EndTime()

	for _, r := range reservations {
		if r == nil || r.Slot.IsMalformed() {
			continue
		}

		// Прошедшие и уже начавшиеся классы не блокируют бронирование
		if !r.Slot.Start.After(now) {
			continue
		}

		if Overlaps(candidateStart, candidateEnd, r.Slot.Start, r.Slot.EndTime()) {
			return true
		}
	}

	return false
}
