package cancel_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/bitforce-booking/internal/domain"
	"github.com/m04kA/bitforce-booking/pkg/metrics"
)

const actionName = "cancel"

// UseCase use case для отмены бронирования
type UseCase struct {
	boards       BoardRegistry
	gateway      ReservationGateway
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	boards BoardRegistry,
	gateway ReservationGateway,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		boards:       boards,
		gateway:      gateway,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute отменяет бронирование.
// Если бронирование известно доске и дедлайн его слота прошёл, бэкенд не вызывается.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelReservation: session=%s, reservation=%d", req.Session.Label(), req.ReservationID)

	if req.Session.IsAnonymous() {
		return nil, fmt.Errorf("%w: session is required", ErrInvalidInput)
	}
	if req.ReservationID <= 0 {
		return nil, fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}

	board := uc.boards.Acquire(req.Session)
	now := uc.timeProvider.Now()

	if snapshot, err := board.Snapshot(); err == nil {
		reservation := snapshot.FindReservation(req.ReservationID)
		if reservation != nil && !reservation.Slot.IsMalformed() && !reservation.Slot.IsBeforeCutoff(now) {
			uc.metrics.ObserveAction(actionName, metrics.ActionBlocked)
			uc.logger.Warn("CancelReservation: reservation=%d is past cutoff %s",
				req.ReservationID, reservation.Slot.CutoffDeadline().Format(domain.TimeFormat))
			return nil, &domain.BlockedError{Reason: domain.ReasonCutoffClosed}
		}
	}

	err := uc.gateway.CancelReservation(ctx, req.Session, req.ReservationID)

	snapshot, syncErr := board.Resync(ctx)
	if syncErr != nil {
		uc.logger.Warn("CancelReservation: resync after cancellation failed: %v", syncErr)
	}

	if err != nil {
		if errors.Is(err, domain.ErrNetwork) {
			uc.metrics.ObserveAction(actionName, metrics.ActionFailed)
			uc.logger.Error("CancelReservation: backend unavailable for reservation=%d: %v", req.ReservationID, err)
		} else {
			uc.metrics.ObserveAction(actionName, metrics.ActionRejected)
			uc.logger.Warn("CancelReservation: backend rejected reservation=%d: %v", req.ReservationID, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrCancelFailed, err)
	}

	uc.metrics.ObserveAction(actionName, metrics.ActionOK)
	uc.logger.Info("CancelReservation: successfully cancelled reservation id=%d", req.ReservationID)

	resp := &Response{ReservationID: req.ReservationID}
	if syncErr == nil && snapshot.User != nil {
		credits := snapshot.User.Balance
		resp.Credits = &credits
	}

	return resp, nil
}
