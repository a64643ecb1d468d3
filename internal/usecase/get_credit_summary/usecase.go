package get_credit_summary

import (
	"context"
	"fmt"

	"github.com/m04kA/bitforce-booking/internal/domain"
)

// UseCase use case для получения сводки по кредитам
type UseCase struct {
	boards       BoardRegistry
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(boards BoardRegistry, logger Logger) *UseCase {
	return &UseCase{
		boards:       boards,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute считает использованные и доступные кредиты за текущий период
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetCreditSummary: session=%s, refresh=%t", req.Session.Label(), req.ForceRefresh)

	if req.Session.IsAnonymous() {
		return nil, fmt.Errorf("%w: session is required", ErrInvalidInput)
	}

	board := uc.boards.Acquire(req.Session)

	load := board.Current
	if req.ForceRefresh {
		load = board.Resync
	}

	snapshot, err := load(ctx)
	if err != nil {
		uc.logger.Error("GetCreditSummary: failed to load user: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	user := snapshot.User
	if user == nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, domain.ErrNotFound)
	}

	now := uc.timeProvider.Now()
	used := user.UsedCredits(snapshot.MyReservations, now)

	resp := &Response{
		UserID:    user.UserID,
		Username:  user.Username,
		Total:     user.Balance,
		Used:      used,
		Available: user.AvailableCredits(used),
		Expired:   user.IsExpired(now),
	}

	if from, to, ok := user.Period(); ok {
		resp.PeriodFrom = &from
		resp.PeriodTo = &to
	}

	uc.logger.Info("GetCreditSummary: user=%d, total=%d, used=%d, available=%d",
		resp.UserID, resp.Total, resp.Used, resp.Available)

	return resp, nil
}
