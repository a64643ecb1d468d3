package availability

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/bitforce-booking/internal/domain"
	"github.com/m04kA/bitforce-booking/pkg/metrics"
)

// Refresher синхронизирует доску доступности одной сессии с бэкендом.
//
// Ручное обновление и таймер вызывают один и тот же Refresh. Каждый вызов получает
// монотонно растущий номер; результат применяется, только если его номер больше
// номера уже применённого снимка. Устаревший ответ, пришедший после более свежего,
// отбрасывается.
type Refresher struct {
	session      domain.Session
	gateway      Gateway
	timeProvider TimeProvider
	location     *time.Location
	metrics      Metrics
	logger       Logger

	seq atomic.Uint64

	mu        sync.RWMutex
	applied   uint64
	snapshot  *Snapshot
	filter    domain.SlotFilter
	hasFilter bool
	lastUsed  time.Time
}

func newRefresher(
	session domain.Session,
	gateway Gateway,
	timeProvider TimeProvider,
	location *time.Location,
	metrics Metrics,
	logger Logger,
) *Refresher {
	if location == nil {
		location = time.Local
	}
	return &Refresher{
		session:      session,
		gateway:      gateway,
		timeProvider: timeProvider,
		location:     location,
		metrics:      metrics,
		logger:       logger,
		lastUsed:     timeProvider.Now(),
	}
}

// Session возвращает сессию, которой принадлежит доска
func (r *Refresher) Session() domain.Session {
	return r.session
}

// Refresh ручное обновление с указанным фильтром.
// Фильтр запоминается и используется последующими обновлениями по таймеру.
// Возвращает самый свежий применённый снимок (он может быть новее собственного результата).
func (r *Refresher) Refresh(ctx context.Context, filter domain.SlotFilter) (*Snapshot, error) {
	r.mu.Lock()
	r.filter = filter
	r.hasFilter = true
	r.mu.Unlock()

	r.Touch()

	return r.refresh(ctx, filter, TriggerManual)
}

// Resync повторяет последнее обновление с текущим фильтром (после бронирования или отмены)
func (r *Refresher) Resync(ctx context.Context) (*Snapshot, error) {
	filter, _ := r.Filter()
	return r.refresh(ctx, filter, TriggerManual)
}

// Snapshot возвращает последний применённый снимок
func (r *Refresher) Snapshot() (*Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.snapshot == nil {
		return nil, ErrNoSnapshot
	}
	return r.snapshot, nil
}

// Filter возвращает текущий фильтр и признак того, что он был задан
func (r *Refresher) Filter() (domain.SlotFilter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter, r.hasFilter
}

// Touch отмечает использование доски
func (r *Refresher) Touch() {
	now := r.timeProvider.Now()

	r.mu.Lock()
	r.lastUsed = now
	r.mu.Unlock()
}

// IdleSince время последнего использования доски
func (r *Refresher) IdleSince() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastUsed
}

// Run обновляет доску по таймеру до отмены контекста.
// Пока фильтр не задан ручным обновлением, тики пропускаются.
func (r *Refresher) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = domain.DefaultRefreshInterval * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			filter, ok := r.Filter()
			if !ok {
				continue
			}
			if _, err := r.refresh(ctx, filter, TriggerTimer); err != nil && ctx.Err() == nil {
				r.logger.Warn("Refresh: timer refresh failed for session=%s: %v", r.session.Label(), err)
			}
		}
	}
}

func (r *Refresher) refresh(ctx context.Context, filter domain.SlotFilter, trigger string) (*Snapshot, error) {
	seq := r.seq.Add(1)

	if filter.Day.IsZero() {
		filter.Day = r.timeProvider.Now()
	}

	user, slots, reservations, err := r.fetch(ctx, filter)
	if err != nil {
		r.metrics.ObserveRefresh(trigger, metrics.RefreshFailed)
		r.logger.Error("Refresh: seq=%d trigger=%s failed: %v", seq, trigger, err)
		return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	// Время после завершения запросов: слоты, начавшиеся за время ожидания, тоже скрываются
	now := r.timeProvider.Now()
	next := r.buildSnapshot(seq, now, filter, user, slots, reservations)

	r.mu.Lock()
	defer r.mu.Unlock()

	if seq <= r.applied {
		r.metrics.ObserveRefresh(trigger, metrics.RefreshSuperseded)
		r.logger.Info("Refresh: seq=%d trigger=%s superseded by seq=%d, result discarded", seq, trigger, r.applied)
		return r.snapshot, nil
	}

	r.applied = seq
	r.snapshot = next
	r.metrics.ObserveRefresh(trigger, metrics.RefreshApplied)
	r.logger.Info("Refresh: seq=%d trigger=%s applied: slots=%d, reservations=%d",
		seq, trigger, len(next.Slots), len(next.MyReservations))

	return next, nil
}

// fetch запрашивает пользователя, слоты и бронирования параллельно.
// Результаты объединяются только после завершения всех трёх запросов.
func (r *Refresher) fetch(ctx context.Context, filter domain.SlotFilter) (
	*domain.UserCredit, []*domain.Slot, []*domain.Reservation, error,
) {
	var (
		user         *domain.UserCredit
		slots        []*domain.Slot
		reservations []*domain.Reservation
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		user, err = r.gateway.GetCurrentUser(gctx, r.session)
		if err != nil {
			return fmt.Errorf("get current user: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		slots, err = r.gateway.FetchSlots(gctx, r.session, filter.Query(r.location))
		if err != nil {
			return fmt.Errorf("fetch slots: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		reservations, err = r.gateway.FetchMyReservations(gctx, r.session)
		if err != nil {
			return fmt.Errorf("fetch reservations: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	if user == nil {
		return nil, nil, nil, fmt.Errorf("get current user: %w", domain.ErrNotFound)
	}

	return user, slots, reservations, nil
}

func (r *Refresher) buildSnapshot(
	seq uint64,
	now time.Time,
	filter domain.SlotFilter,
	user *domain.UserCredit,
	slots []*domain.Slot,
	reservations []*domain.Reservation,
) *Snapshot {
	byID := make(map[int64]*domain.Slot, len(slots))
	visible := make([]*domain.Slot, 0, len(slots))
	malformed := 0

	for _, slot := range slots {
		if slot == nil {
			continue
		}
		if slot.IsMalformed() {
			malformed++
			continue
		}
		byID[slot.ID] = slot

		// Слот исчезает, как только наступает время начала
		if slot.HasStarted(now) || !filter.Matches(slot, r.location) {
			continue
		}
		visible = append(visible, slot)
	}

	if malformed > 0 {
		r.logger.Warn("Refresh: seq=%d skipped %d slots without start time", seq, malformed)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Start.Before(visible[j].Start)
	})

	return &Snapshot{
		Seq:            seq,
		FetchedAt:      now,
		Filter:         filter,
		User:           user,
		Slots:          visible,
		MyReservations: mineOnly(reservations, user.UserID, byID),
	}
}

// mineOnly оставляет бронирования текущего пользователя и дополняет их снимком слота,
// если бэкенд прислал только ID слота
func mineOnly(reservations []*domain.Reservation, userID int64, slots map[int64]*domain.Slot) []*domain.Reservation {
	result := make([]*domain.Reservation, 0, len(reservations))

	for _, res := range reservations {
		if res == nil || res.UserID != userID {
			continue
		}

		if res.Slot == nil {
			if slot, ok := slots[res.SlotID]; ok {
				enriched := *res
				enriched.Slot = slot
				res = &enriched
			}
		}

		result = append(result, res)
	}

	return result
}

// Current возвращает последний снимок, а если его ещё нет, выполняет обновление с текущим фильтром
func (r *Refresher) Current(ctx context.Context) (*Snapshot, error) {
	r.Touch()

	snapshot, err := r.Snapshot()
	if err == nil {
		return snapshot, nil
	}
	return r.Resync(ctx)
}
