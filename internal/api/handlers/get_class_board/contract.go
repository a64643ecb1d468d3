package get_class_board

import (
	"context"

	getClassBoard "github.com/m04kA/bitforce-booking/internal/usecase/get_class_board"
)

type GetClassBoardUseCase interface {
	Execute(ctx context.Context, req *getClassBoard.Request) (*getClassBoard.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
