package domain

import "time"

// Slot represents a scheduled class instance that can be booked
type Slot struct {
	ID            int64
	ActivityID    int64
	ActivityName  string
	BranchID      int64
	BranchName    string
	BranchAddress string

	Start           time.Time  // Нулевое значение = бэкенд не прислал время начала
	End             *time.Time // Явное время окончания (опционально)
	DurationMinutes *int       // nil = DefaultSlotDurationMinutes
	Capacity        int
	Occupancy       int
	CutoffMinutes   *int // nil = без ограничения, кроме самого начала
}

// IsMalformed returns true if the slot cannot be evaluated (no start time)
func (s *Slot) IsMalformed() bool {
	return s == nil || s.Start.IsZero()
}

// Duration returns the slot duration, falling back to the default
func (s *Slot) Duration() time.Duration {
	minutes := DefaultSlotDurationMinutes
	if s.DurationMinutes != nil {
		minutes = *s.DurationMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// EndTime returns the explicit end or start + duration
func (s *Slot) EndTime() time.Time {
	if s.End != nil && !s.End.IsZero() {
		return *s.End
	}
	return s.Start.Add(s.Duration())
}

// Cutoff returns the cutoff window; missing or negative values count as zero
func (s *Slot) Cutoff() time.Duration {
	if s.CutoffMinutes == nil || *s.CutoffMinutes < 0 {
		return DefaultCutoffMinutes * time.Minute
	}
	return time.Duration(*s.CutoffMinutes) * time.Minute
}

// CutoffDeadline returns the moment after which booking and cancelling are closed
func (s *Slot) CutoffDeadline() time.Time {
	return s.Start.Add(-s.Cutoff())
}

// IsBeforeCutoff returns true while now is strictly before the cutoff deadline
func (s *Slot) IsBeforeCutoff(now time.Time) bool {
	return now.Before(s.CutoffDeadline())
}

// HasStarted returns true once the start time is reached
func (s *Slot) HasStarted(now time.Time) bool {
	return !s.Start.After(now)
}

// IsPast returns true once the slot has ended
func (s *Slot) IsPast(now time.Time) bool {
	return !s.EndTime().After(now)
}

// AvailableCapacity returns capacity minus occupancy, may be negative
func (s *Slot) AvailableCapacity() int {
	return s.Capacity - s.Occupancy
}

// AvailableSpots returns free spots for display, never below zero
func (s *Slot) AvailableSpots() int {
	if spots := s.AvailableCapacity(); spots > 0 {
		return spots
	}
	return 0
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (s *Slot) OccupancyRate() float64 {
	if s.Capacity <= 0 {
		return 0
	}
	return float64(s.Occupancy) / float64(s.Capacity) * 100
}
