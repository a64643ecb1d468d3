// Package gatewaytest in-memory реализация источника данных для тестов use case и хендлеров
package gatewaytest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/bitforce-booking/internal/domain"
)

// Gateway фейковый бэкенд. Поля можно менять через Update.
type Gateway struct {
	mu sync.Mutex

	User         *domain.UserCredit
	Slots        []*domain.Slot
	Reservations []*domain.Reservation

	UserErr   error
	SlotsErr  error
	CreateErr error
	CancelErr error

	Created   []int64 // ID слотов из CreateReservation
	Cancelled []int64 // ID бронирований из CancelReservation

	fetches int
	nextID  int64
}

// New создает фейковый бэкенд с пользователем
func New(user *domain.UserCredit, slots ...*domain.Slot) *Gateway {
	return &Gateway{User: user, Slots: slots, nextID: 1000}
}

// Update меняет состояние под мьютексом
func (g *Gateway) Update(fn func(g *Gateway)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g)
}

// Fetches количество запросов слотов
func (g *Gateway) Fetches() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fetches
}

// CreatedSlots копия списка забронированных слотов
func (g *Gateway) CreatedSlots() []int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]int64(nil), g.Created...)
}

// CancelledReservations копия списка отменённых бронирований
func (g *Gateway) CancelledReservations() []int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]int64(nil), g.Cancelled...)
}

func (g *Gateway) FetchSlots(_ context.Context, _ domain.Session, query domain.SlotQuery) ([]*domain.Slot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.fetches++
	if g.SlotsErr != nil {
		return nil, g.SlotsErr
	}

	result := make([]*domain.Slot, 0, len(g.Slots))
	for _, s := range g.Slots {
		if query.BranchID != nil && s.BranchID != *query.BranchID {
			continue
		}
		if query.ActivityID != nil && s.ActivityID != *query.ActivityID {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

func (g *Gateway) FetchMyReservations(context.Context, domain.Session) ([]*domain.Reservation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*domain.Reservation(nil), g.Reservations...), nil
}

func (g *Gateway) GetCurrentUser(context.Context, domain.Session) (*domain.UserCredit, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.User, g.UserErr
}

func (g *Gateway) CreateReservation(_ context.Context, _ domain.Session, slotID int64) (*domain.Reservation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Created = append(g.Created, slotID)
	if g.CreateErr != nil {
		return nil, g.CreateErr
	}

	g.nextID++
	reservation := &domain.Reservation{
		ID:        g.nextID,
		SlotID:    slotID,
		CreatedAt: time.Now(),
	}
	if g.User != nil {
		reservation.UserID = g.User.UserID
	}
	for _, s := range g.Slots {
		if s.ID == slotID {
			reservation.Slot = s
		}
	}

	g.Reservations = append(g.Reservations, reservation)
	return reservation, nil
}

func (g *Gateway) CancelReservation(_ context.Context, _ domain.Session, reservationID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Cancelled = append(g.Cancelled, reservationID)
	if g.CancelErr != nil {
		return g.CancelErr
	}

	for i, r := range g.Reservations {
		if r.ID == reservationID {
			g.Reservations = append(g.Reservations[:i], g.Reservations[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// NopLogger логгер, который ничего не пишет
type NopLogger struct{}

func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}

// RecordingLogger запоминает отформатированные строки логов
type RecordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *RecordingLogger) Info(format string, v ...interface{})  { l.record(format, v...) }
func (l *RecordingLogger) Warn(format string, v ...interface{})  { l.record(format, v...) }
func (l *RecordingLogger) Error(format string, v ...interface{}) { l.record(format, v...) }

// Lines копия записанных строк
func (l *RecordingLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

func (l *RecordingLogger) record(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

// FixedTime провайдер фиксированного времени
type FixedTime struct {
	T time.Time
}

func (f FixedTime) Now() time.Time { return f.T }
