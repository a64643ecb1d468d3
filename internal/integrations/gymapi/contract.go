package gymapi

import "time"

// Metrics интерфейс для метрик обращений к бэкенду
type Metrics interface {
	ObserveGateway(operation string, err error, duration time.Duration)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
