package get_credit_summary

import (
	"context"

	getCreditSummary "github.com/m04kA/bitforce-booking/internal/usecase/get_credit_summary"
)

type GetCreditSummaryUseCase interface {
	Execute(ctx context.Context, req *getCreditSummary.Request) (*getCreditSummary.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
