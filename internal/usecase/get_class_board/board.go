package get_class_board

import (
	"time"

	"github.com/m04kA/bitforce-booking/internal/availability"
	"github.com/m04kA/bitforce-booking/internal/domain"
	"github.com/m04kA/bitforce-booking/internal/eligibility"
)

// buildDays оценивает слоты снимка на момент now и группирует их по локальному дню.
// Начавшиеся после получения снимка слоты не показываются.
func buildDays(snapshot *availability.Snapshot, now time.Time, loc *time.Location) []Day {
	index := domain.IndexBySlot(snapshot.MyReservations)
	future := domain.FutureReservations(snapshot.MyReservations, now)

	days := make([]Day, 0, 1)
	for _, slot := range snapshot.Slots {
		decision := eligibility.Evaluate(slot, snapshot.User, index.ForSlot(slot.ID), future, now)
		state := eligibility.State(slot, decision, now)
		if state == domain.StateHidden {
			continue
		}

		start := slot.Start.In(loc)
		date := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)

		// Слоты в снимке уже отсортированы по началу
		if len(days) == 0 || !days[len(days)-1].Date.Equal(date) {
			days = append(days, Day{Date: date})
		}
		last := &days[len(days)-1]
		last.Slots = append(last.Slots, toSlot(slot, state, decision, loc))
	}

	return days
}

func toSlot(slot *domain.Slot, state domain.SlotState, decision domain.Decision, loc *time.Location) Slot {
	return Slot{
		ID:              slot.ID,
		ActivityID:      slot.ActivityID,
		ActivityName:    slot.ActivityName,
		BranchID:        slot.BranchID,
		BranchName:      slot.BranchName,
		BranchAddress:   slot.BranchAddress,
		Start:           slot.Start.In(loc),
		End:             slot.EndTime().In(loc),
		DurationMinutes: int(slot.Duration() / time.Minute),
		CutoffMinutes:   int(slot.Cutoff() / time.Minute),
		CutoffDeadline:  slot.CutoffDeadline().In(loc),
		Capacity:        slot.Capacity,
		Occupancy:       slot.Occupancy,
		AvailableSpots:  slot.AvailableSpots(),
		OccupancyRate:   slot.OccupancyRate(),
		State:           state,
		Decision:        decision,
	}
}

func toCredits(user *domain.UserCredit, now time.Time) Credits {
	if user == nil {
		return Credits{}
	}
	return Credits{
		UserID:    user.UserID,
		Username:  user.Username,
		Balance:   user.Balance,
		ExpiresAt: user.ExpiresAt,
		Expired:   user.IsExpired(now),
	}
}

// sameFilter сравнивает фильтры с точностью до локального дня; нулевой день = сегодня
func sameFilter(a, b domain.SlotFilter, now time.Time, loc *time.Location) bool {
	if !sameID(a.BranchID, b.BranchID) || !sameID(a.ActivityID, b.ActivityID) {
		return false
	}

	if a.Day.IsZero() {
		a.Day = now
	}
	if b.Day.IsZero() {
		b.Day = now
	}

	aStart, _ := a.DayBounds(loc)
	bStart, _ := b.DayBounds(loc)
	return aStart.Equal(bStart)
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
