package get_class_board

import (
	"time"

	"github.com/m04kA/bitforce-booking/internal/availability"
	"github.com/m04kA/bitforce-booking/internal/domain"
)

// BoardRegistry интерфейс реестра досок доступности
type BoardRegistry interface {
	Acquire(session domain.Session) *availability.Refresher
	Location() *time.Location
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
