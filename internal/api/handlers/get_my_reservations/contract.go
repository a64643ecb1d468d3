package get_my_reservations

import (
	"context"

	getMyReservations "github.com/m04kA/bitforce-booking/internal/usecase/get_my_reservations"
)

type GetMyReservationsUseCase interface {
	Execute(ctx context.Context, req *getMyReservations.Request) (*getMyReservations.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
