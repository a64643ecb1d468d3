package reserve_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/bitforce-booking/internal/availability"
	"github.com/m04kA/bitforce-booking/internal/domain"
	"github.com/m04kA/bitforce-booking/internal/eligibility"
	"github.com/m04kA/bitforce-booking/pkg/metrics"
)

const actionName = "reserve"

// UseCase use case для бронирования слота
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

// Execute выполняет бронирование.
// Если слот есть в текущем снимке, сначала применяются те же правила, что и для отображения.
// Локальное состояние не меняется: после ответа бэкенда доска всегда синхронизируется заново.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveSlot: session=%s, slot=%d", req.Session.Label(), req.SlotID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReserveSlot: validation failed: %v", err)
		return nil, err
	}

	board := uc.boards.Acquire(req.Session)
	now := uc.timeProvider.Now()

	// 2. Локальная проверка по последнему снимку
	if reason, checked := uc.precheck(board, req.SlotID, now); checked && reason != domain.ReasonNone {
		uc.metrics.ObserveAction(actionName, metrics.ActionBlocked)
		uc.logger.Warn("ReserveSlot: slot=%d blocked locally: %s", req.SlotID, reason)
		return nil, &domain.BlockedError{Reason: reason}
	}

	// 3. Бронирование на бэкенде
	created, err := uc.gateway.CreateReservation(ctx, req.Session, req.SlotID)

	// 4. Синхронизация в любом случае
	snapshot, syncErr := board.Resync(ctx)
	if syncErr != nil {
		uc.logger.Warn("ReserveSlot: resync after reservation failed: %v", syncErr)
	}

	if err != nil {
		if errors.Is(err, domain.ErrNetwork) {
			uc.metrics.ObserveAction(actionName, metrics.ActionFailed)
			uc.logger.Error("ReserveSlot: backend unavailable for slot=%d: %v", req.SlotID, err)
		} else {
			uc.metrics.ObserveAction(actionName, metrics.ActionRejected)
			uc.logger.Warn("ReserveSlot: backend rejected slot=%d: %v", req.SlotID, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrReserveFailed, err)
	}

	uc.metrics.ObserveAction(actionName, metrics.ActionOK)
	uc.logger.Info("ReserveSlot: successfully created reservation id=%d", created.ID)

	resp := &Response{
		ReservationID: created.ID,
		SlotID:        req.SlotID,
		CreatedAt:     created.CreatedAt,
	}
	if syncErr == nil && snapshot.User != nil {
		credits := snapshot.User.Balance
		resp.Credits = &credits
	}

	return resp, nil
}

// precheck возвращает причину блокировки; checked = false, если слота нет в снимке
// и решение остаётся за бэкендом
func (uc *UseCase) precheck(board *availability.Refresher, slotID int64, now time.Time) (domain.BlockReason, bool) {
	snapshot, err := board.Snapshot()
	if err != nil {
		uc.logger.Info("ReserveSlot: no snapshot yet, skipping local check")
		return domain.ReasonNone, false
	}

	slot := snapshot.FindSlot(slotID)
	if slot == nil {
		uc.logger.Info("ReserveSlot: slot=%d is not on the board, skipping local check", slotID)
		return domain.ReasonNone, false
	}

	decision := eligibility.Evaluate(
		slot,
		snapshot.User,
		domain.IndexBySlot(snapshot.MyReservations).ForSlot(slotID),
		domain.FutureReservations(snapshot.MyReservations, now),
		now,
	)

	return decision.BlockReason, true
}
