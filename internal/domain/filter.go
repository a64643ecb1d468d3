package domain

import "time"

// SlotFilter фильтр для получения слотов на один календарный день
type SlotFilter struct {
	BranchID   *int64    // Фильтр по филиалу (опционально)
	ActivityID *int64    // Фильтр по активности (опционально)
	Day        time.Time // День в локальном времени (время суток игнорируется)
}

// DayBounds возвращает границы дня [00:00, следующий день 00:00) в указанной локации
func (f SlotFilter) DayBounds(loc *time.Location) (time.Time, time.Time) {
	day := f.Day.In(loc)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// Matches проверяет, что слот попадает под фильтр (день, филиал, активность)
func (f SlotFilter) Matches(slot *Slot, loc *time.Location) bool {
	if slot.IsMalformed() {
		return false
	}

	if f.BranchID != nil && slot.BranchID != *f.BranchID {
		return false
	}

	if f.ActivityID != nil && slot.ActivityID != *f.ActivityID {
		return false
	}

	if f.Day.IsZero() {
		return true
	}

	dayStart, dayEnd := f.DayBounds(loc)
	return !slot.Start.Before(dayStart) && slot.Start.Before(dayEnd)
}

// SlotQuery параметры запроса слотов у источника данных
type SlotQuery struct {
	BranchID   *int64
	ActivityID *int64
	From       time.Time // Начало диапазона (включительно)
	To         time.Time // Конец диапазона (не включительно)
}

// Query переводит фильтр дня в диапазон запроса
func (f SlotFilter) Query(loc *time.Location) SlotQuery {
	from, to := f.DayBounds(loc)
	return SlotQuery{
		BranchID:   f.BranchID,
		ActivityID: f.ActivityID,
		From:       from,
		To:         to,
	}
}
