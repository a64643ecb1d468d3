package availability

import (
	"context"
	"time"

	"github.com/m04kA/bitforce-booking/internal/domain"
)

// Gateway источник слотов, бронирований и состояния пользователя
type Gateway interface {
	FetchSlots(ctx context.Context, session domain.Session, query domain.SlotQuery) ([]*domain.Slot, error)
	FetchMyReservations(ctx context.Context, session domain.Session) ([]*domain.Reservation, error)
	GetCurrentUser(ctx context.Context, session domain.Session) (*domain.UserCredit, error)
}

// Metrics интерфейс для метрик обновления
type Metrics interface {
	ObserveRefresh(trigger, result string)
	SetActiveBoards(n int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
