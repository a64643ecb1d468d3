package availability

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/bitforce-booking/internal/domain"
)

type board struct {
	refresher *Refresher
	cancel    context.CancelFunc
}

// Registry хранит по одной доске на сессию.
// Каждая доска обновляется своим таймером; неиспользуемые доски удаляются по истечении idleTTL.
type Registry struct {
	gateway      Gateway
	timeProvider TimeProvider
	location     *time.Location
	interval     time.Duration
	idleTTL      time.Duration
	metrics      Metrics
	logger       Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	boards map[string]*board
}

// NewRegistry создает реестр досок
func NewRegistry(
	gateway Gateway,
	location *time.Location,
	interval time.Duration,
	idleTTL time.Duration,
	metrics Metrics,
	logger Logger,
) *Registry {
	return newRegistry(gateway, &RealTimeProvider{}, location, interval, idleTTL, metrics, logger)
}

func newRegistry(
	gateway Gateway,
	timeProvider TimeProvider,
	location *time.Location,
	interval time.Duration,
	idleTTL time.Duration,
	metrics Metrics,
	logger Logger,
) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		gateway:      gateway,
		timeProvider: timeProvider,
		location:     location,
		interval:     interval,
		idleTTL:      idleTTL,
		metrics:      metrics,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
		boards:       make(map[string]*board),
	}
}

// Location часовой пояс, в котором считаются границы дня
func (reg *Registry) Location() *time.Location {
	return reg.location
}

// Acquire возвращает доску сессии, создавая её и запуская таймер при первом обращении
func (reg *Registry) Acquire(session domain.Session) *Refresher {
	key := session.Key()

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if b, ok := reg.boards[key]; ok {
		b.refresher.Touch()
		return b.refresher
	}

	refresher := newRefresher(session, reg.gateway, reg.timeProvider, reg.location, reg.metrics, reg.logger)
	ctx, cancel := context.WithCancel(reg.ctx)
	reg.boards[key] = &board{refresher: refresher, cancel: cancel}

	go refresher.Run(ctx, reg.interval)

	reg.metrics.SetActiveBoards(len(reg.boards))
	reg.logger.Info("Registry: board created, active=%d", len(reg.boards))

	return refresher
}

// Len количество активных досок
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.boards)
}

// EvictIdle удаляет доски, не использовавшиеся дольше idleTTL. Возвращает число удалённых.
func (reg *Registry) EvictIdle() int {
	if reg.idleTTL <= 0 {
		return 0
	}

	deadline := reg.timeProvider.Now().Add(-reg.idleTTL)

	reg.mu.Lock()
	defer reg.mu.Unlock()

	evicted := 0
	for key, b := range reg.boards {
		if b.refresher.IdleSince().Before(deadline) {
			b.cancel()
			delete(reg.boards, key)
			evicted++
		}
	}

	if evicted > 0 {
		reg.metrics.SetActiveBoards(len(reg.boards))
		reg.logger.Info("Registry: evicted %d idle boards, active=%d", evicted, len(reg.boards))
	}

	return evicted
}

// Run периодически удаляет неиспользуемые доски; при отмене контекста останавливает все таймеры
func (reg *Registry) Run(ctx context.Context) {
	period := reg.idleTTL / 2
	if period <= 0 {
		period = time.Minute
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			reg.Close()
			return
		case <-ticker.C:
			reg.EvictIdle()
		}
	}
}

// Close останавливает таймеры всех досок
func (reg *Registry) Close() {
	reg.cancel()

	reg.mu.Lock()
	defer reg.mu.Unlock()

	for key, b := range reg.boards {
		b.cancel()
		delete(reg.boards, key)
	}
	reg.metrics.SetActiveBoards(0)
}
