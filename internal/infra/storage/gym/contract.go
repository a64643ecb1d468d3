package gym

import (
	"context"
	"database/sql"
	"time"
)

// DB интерфейс подключения к базе (реализуется *sql.DB)
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Metrics интерфейс для метрик обращений к базе
type Metrics interface {
	ObserveGateway(operation string, err error, duration time.Duration)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
