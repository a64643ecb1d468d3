package get_my_reservations

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/bitforce-booking/internal/domain"
)

// UseCase use case для получения бронирований пользователя
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

// Execute делит бронирования на будущие (начало >= now) и историю
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetMyReservations: session=%s, refresh=%t", req.Session.Label(), req.ForceRefresh)

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
		uc.logger.Error("GetMyReservations: failed to load reservations: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	now := uc.timeProvider.Now()
	loc := uc.boards.Location()

	resp := &Response{
		Upcoming: make([]Reservation, 0),
		History:  make([]Reservation, 0),
	}
	if snapshot.User != nil {
		resp.Username = snapshot.User.Username
	}

	for _, r := range snapshot.MyReservations {
		view := toReservation(r, now, loc)
		if view.Status == StatusUpcoming {
			resp.Upcoming = append(resp.Upcoming, view)
		} else {
			resp.History = append(resp.History, view)
		}
	}

	sort.SliceStable(resp.Upcoming, func(i, j int) bool {
		return resp.Upcoming[i].Start.Before(*resp.Upcoming[j].Start)
	})
	sort.SliceStable(resp.History, func(i, j int) bool {
		return historyLess(resp.History[i], resp.History[j])
	})

	uc.logger.Info("GetMyReservations: upcoming=%d, history=%d", len(resp.Upcoming), len(resp.History))

	return resp, nil
}

func toReservation(r *domain.Reservation, now time.Time, loc *time.Location) Reservation {
	view := Reservation{
		ID:                r.ID,
		SlotID:            r.SlotID,
		CreatedAt:         r.CreatedAt,
		Status:            StatusUnknown,
		CancelBlockReason: domain.ReasonMalformedSlot,
	}

	slot := r.Slot
	if slot.IsMalformed() {
		return view
	}

	start := slot.Start.In(loc)
	end := slot.EndTime().In(loc)
	deadline := slot.CutoffDeadline().In(loc)

	view.ActivityName = slot.ActivityName
	view.BranchName = slot.BranchName
	view.BranchAddress = slot.BranchAddress
	view.Start = &start
	view.End = &end
	view.CutoffDeadline = &deadline

	switch {
	case !slot.Start.Before(now):
		view.Status = StatusUpcoming
	case slot.IsPast(now):
		view.Status = StatusCompleted
	default:
		view.Status = StatusInProgress
	}

	if slot.IsBeforeCutoff(now) {
		view.CanCancel = true
		view.CancelBlockReason = domain.ReasonNone
	} else {
		view.CancelBlockReason = domain.ReasonCutoffClosed
	}

	return view
}

// historyLess сортирует историю по убыванию начала; бронирования без времени в конце
func historyLess(a, b Reservation) bool {
	switch {
	case a.Start == nil:
		return false
	case b.Start == nil:
		return true
	default:
		return a.Start.After(*b.Start)
	}
}
