package get_class_board

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/bitforce-booking/internal/availability"
	"github.com/m04kA/bitforce-booking/internal/domain"
)

// UseCase use case для получения доски классов
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

// Execute возвращает доску классов на день.
// Снимок обновляется, если фильтр изменился, снимка ещё нет или запрошено обновление.
// Решения по каждому слоту вычисляются заново на текущий момент.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetClassBoard: session=%s, date=%s, refresh=%t",
		req.Session.Label(), req.Date.Format(domain.DateFormat), req.ForceRefresh)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetClassBoard: validation failed: %v", err)
		return nil, err
	}

	loc := uc.boards.Location()
	now := uc.timeProvider.Now()
	board := uc.boards.Acquire(req.Session)

	filter := domain.SlotFilter{
		BranchID:   req.BranchID,
		ActivityID: req.ActivityID,
		Day:        req.Date,
	}

	snapshot, stale, err := uc.loadSnapshot(ctx, board, filter, req.ForceRefresh, now, loc)
	if err != nil {
		return nil, err
	}

	days := buildDays(snapshot, now, loc)

	uc.logger.Info("GetClassBoard: seq=%d, days=%d, stale=%t", snapshot.Seq, len(days), stale)

	return &Response{
		Date:      snapshot.Filter.Day,
		FetchedAt: snapshot.FetchedAt,
		Stale:     stale,
		Credits:   toCredits(snapshot.User, now),
		Days:      days,
	}, nil
}

// loadSnapshot возвращает снимок для фильтра. Если обновление не удалось, но есть
// снимок с тем же фильтром, он возвращается с признаком stale.
func (uc *UseCase) loadSnapshot(
	ctx context.Context,
	board *availability.Refresher,
	filter domain.SlotFilter,
	force bool,
	now time.Time,
	loc *time.Location,
) (*availability.Snapshot, bool, error) {
	previous, err := board.Snapshot()
	hasPrevious := err == nil && sameFilter(previous.Filter, filter, now, loc)

	current, hasFilter := board.Filter()
	if hasPrevious && hasFilter && !force && sameFilter(current, filter, now, loc) {
		board.Touch()
		return previous, false, nil
	}

	snapshot, err := board.Refresh(ctx, filter)
	if err == nil {
		return snapshot, false, nil
	}

	if hasPrevious {
		uc.logger.Warn("GetClassBoard: refresh failed, serving previous snapshot seq=%d: %v", previous.Seq, err)
		return previous, true, nil
	}

	uc.logger.Error("GetClassBoard: refresh failed: %v", err)
	return nil, false, fmt.Errorf("%w: %w", ErrBoardUnavailable, err)
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Session.IsAnonymous() {
		return fmt.Errorf("%w: session is required", ErrInvalidInput)
	}
	if req.BranchID != nil && *req.BranchID <= 0 {
		return fmt.Errorf("%w: branchID must be positive", ErrInvalidInput)
	}
	if req.ActivityID != nil && *req.ActivityID <= 0 {
		return fmt.Errorf("%w: activityID must be positive", ErrInvalidInput)
	}
	return nil
}
