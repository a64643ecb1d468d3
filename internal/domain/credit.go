package domain

import "time"

// UserCredit represents the authenticated user's credit state
type UserCredit struct {
	UserID      int64
	Username    string
	Balance     int
	ExpiresAt   *time.Time
	ActivatedAt *time.Time
}

// HasCredits returns true if the balance allows booking.
// Баланс не уменьшается локально за будущие бронирования, списание делает бэкенд.
func (c *UserCredit) HasCredits() bool {
	return c != nil && c.Balance > 0
}

// IsExpired returns true if the credits expiration date is already behind
func (c *UserCredit) IsExpired(now time.Time) bool {
	return c != nil && c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

// Period возвращает период действия кредитов [activation, expiry].
// Без даты активации период начинается за DefaultCreditPeriodDays до окончания.
// ok = false, если дата окончания неизвестна.
func (c *UserCredit) Period() (from, to time.Time, ok bool) {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}, time.Time{}, false
	}

	to = *c.ExpiresAt
	if c.ActivatedAt != nil {
		return *c.ActivatedAt, to, true
	}
	return to.AddDate(0, 0, -DefaultCreditPeriodDays), to, true
}

// UsedCredits считает классы, уже начавшиеся внутри периода кредитов
func (c *UserCredit) UsedCredits(reservations []*Reservation, now time.Time) int {
	from, to, ok := c.Period()
	if !ok {
		return 0
	}

	used := 0
	for _, r := range reservations {
		if r == nil || r.Slot.IsMalformed() {
			continue
		}
		start := r.Slot.Start
		if start.After(now) || start.Before(from) || start.After(to) {
			continue
		}
		used++
	}
	return used
}

// AvailableCredits баланс для отображения: total - used, в пределах [0, MaxDisplayedCredits]
func (c *UserCredit) AvailableCredits(used int) int {
	if c == nil {
		return 0
	}
	available := c.Balance - used
	if available < 0 {
		return 0
	}
	if available > MaxDisplayedCredits {
		return MaxDisplayedCredits
	}
	return available
}
