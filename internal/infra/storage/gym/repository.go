package gym

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/bitforce-booking/internal/domain"
	"github.com/m04kA/bitforce-booking/pkg/psqlbuilder"
)

// Операции для метрик и логов
const (
	opGetCurrentUser      = "get_current_user"
	opFetchSlots          = "fetch_slots"
	opFetchMyReservations = "fetch_my_reservations"
	opCreateReservation   = "create_reservation"
	opCancelReservation   = "cancel_reservation"
)

// occupancyColumn количество активных бронирований слота
const occupancyColumn = "(SELECT COUNT(*) FROM reservations r WHERE r.slot_id = s.id AND r.cancelled_at IS NULL) AS occupancy"

var slotColumns = []string{
	"s.id",
	"s.activity_id",
	"a.name",
	"s.branch_id",
	"b.name",
	"b.address",
	"s.starts_at",
	"s.ends_at",
	"s.duration_minutes",
	"s.capacity",
	"s.cutoff_minutes",
	occupancyColumn,
}

// Repository источник слотов и бронирований напрямую из PostgreSQL.
// Пользователь определяется по Session.UserID.
type Repository struct {
	db      DB
	metrics Metrics
	log     Logger
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DB, metrics Metrics, log Logger) *Repository {
	return &Repository{db: db, metrics: metrics, log: log}
}

// GetCurrentUser получает пользователя и его кредиты
func (r *Repository) GetCurrentUser(ctx context.Context, session domain.Session) (user *domain.UserCredit, err error) {
	defer r.observe(opGetCurrentUser, time.Now(), &err)

	userID, err := sessionUser(session)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"username",
		"credits",
		"credits_expires_at",
		"credits_activated_at",
	).
		From("gym_users").
		Where(squirrel.Eq{"id": userID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetCurrentUser - build select query: %v", ErrBuildQuery, err)
	}

	var (
		result                 domain.UserCredit
		expiresAt, activatedAt sql.NullTime
	)

	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&result.UserID,
		&result.Username,
		&result.Balance,
		&expiresAt,
		&activatedAt,
	)
	if err != nil {
		return nil, mapError(ErrScanRow, "GetCurrentUser", err)
	}

	result.ExpiresAt = nullTimePtr(expiresAt)
	result.ActivatedAt = nullTimePtr(activatedAt)

	return &result, nil
}

// FetchSlots получает слоты в диапазоне запроса
func (r *Repository) FetchSlots(ctx context.Context, _ domain.Session, q domain.SlotQuery) (slots []*domain.Slot, err error) {
	defer r.observe(opFetchSlots, time.Now(), &err)

	query, args, err := slotsQuery(q).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FetchSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(ErrExecQuery, "FetchSlots", err)
	}
	defer rows.Close()

	slots = make([]*domain.Slot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, mapError(ErrScanRow, "FetchSlots", err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(ErrScanRow, "FetchSlots", err)
	}

	return slots, nil
}

// FetchMyReservations получает активные бронирования пользователя, новые первыми
func (r *Repository) FetchMyReservations(ctx context.Context, session domain.Session) (reservations []*domain.Reservation, err error) {
	defer r.observe(opFetchMyReservations, time.Now(), &err)

	userID, err := sessionUser(session)
	if err != nil {
		return nil, err
	}

	query, args, err := reservationsQuery(userID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FetchMyReservations - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(ErrExecQuery, "FetchMyReservations", err)
	}
	defer rows.Close()

	reservations = make([]*domain.Reservation, 0)
	for rows.Next() {
		var (
			res  domain.Reservation
			slot domain.Slot
		)

		dest := append([]interface{}{&res.ID, &res.UserID, &res.CreatedAt}, slotDest(&slot)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, mapError(ErrScanRow, "FetchMyReservations", err)
		}

		res.SlotID = slot.ID
		res.Slot = &slot
		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(ErrScanRow, "FetchMyReservations", err)
	}

	return reservations, nil
}

// CreateReservation бронирует слот: проверяет места и кредиты под блокировкой и списывает кредит
func (r *Repository) CreateReservation(ctx context.Context, session domain.Session, slotID int64) (reservation *domain.Reservation, err error) {
	defer r.observe(opCreateReservation, time.Now(), &err)

	userID, err := sessionUser(session)
	if err != nil {
		return nil, err
	}

	reservation = &domain.Reservation{UserID: userID, SlotID: slotID}

	err = r.inTx(ctx, "CreateReservation", func(tx *sql.Tx) error {
		// 1. Блокируем слот
		var capacity int
		query, args, err := psqlbuilder.Select("capacity").
			From("gym_slots").
			Where(squirrel.Eq{"id": slotID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: CreateReservation - build slot query: %v", ErrBuildQuery, err)
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&capacity); err != nil {
			return mapError(ErrScanRow, "CreateReservation - lock slot", err)
		}

		// 2. Проверяем свободные места
		var occupied int
		query, args, err = psqlbuilder.Select("COUNT(*)").
			From("reservations").
			Where(squirrel.Eq{"slot_id": slotID}).
			Where("cancelled_at IS NULL").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: CreateReservation - build count query: %v", ErrBuildQuery, err)
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&occupied); err != nil {
			return mapError(ErrScanRow, "CreateReservation - count", err)
		}
		if occupied >= capacity {
			return fmt.Errorf("%w: %w: %d/%d", domain.ErrValidation, ErrSlotFull, occupied, capacity)
		}

		// 3. Блокируем пользователя и проверяем кредиты
		var credits int
		query, args, err = psqlbuilder.Select("credits").
			From("gym_users").
			Where(squirrel.Eq{"id": userID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: CreateReservation - build user query: %v", ErrBuildQuery, err)
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&credits); err != nil {
			return mapError(ErrScanRow, "CreateReservation - lock user", err)
		}
		if credits <= 0 {
			return fmt.Errorf("%w: %w", domain.ErrValidation, ErrNoCredits)
		}

		// 4. Создаем бронирование
		query, args, err = psqlbuilder.Insert("reservations").
			Columns("user_id", "slot_id").
			Values(userID, slotID).
			Suffix("RETURNING id, created_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: CreateReservation - build insert query: %v", ErrBuildQuery, err)
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&reservation.ID, &reservation.CreatedAt); err != nil {
			return mapError(ErrExecQuery, "CreateReservation - insert", err)
		}

		// 5. Списываем кредит
		query, args, err = psqlbuilder.Update("gym_users").
			Set("credits", squirrel.Expr("credits - 1")).
			Where(squirrel.Eq{"id": userID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: CreateReservation - build update query: %v", ErrBuildQuery, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return mapError(ErrExecQuery, "CreateReservation - debit credit", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("CreateReservation: user=%d reserved slot=%d, reservation=%d", userID, slotID, reservation.ID)
	return reservation, nil
}

// CancelReservation отменяет активное бронирование пользователя и возвращает кредит
func (r *Repository) CancelReservation(ctx context.Context, session domain.Session, reservationID int64) (err error) {
	defer r.observe(opCancelReservation, time.Now(), &err)

	userID, err := sessionUser(session)
	if err != nil {
		return err
	}

	err = r.inTx(ctx, "CancelReservation", func(tx *sql.Tx) error {
		query, args, err := psqlbuilder.Update("reservations").
			Set("cancelled_at", squirrel.Expr("now()")).
			Where(squirrel.Eq{"id": reservationID, "user_id": userID}).
			Where("cancelled_at IS NULL").
			Suffix("RETURNING slot_id").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: CancelReservation - build update query: %v", ErrBuildQuery, err)
		}

		var slotID int64
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&slotID); err != nil {
			return mapError(ErrExecQuery, "CancelReservation - update", err)
		}

		query, args, err = psqlbuilder.Update("gym_users").
			Set("credits", squirrel.Expr("credits + 1")).
			Where(squirrel.Eq{"id": userID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: CancelReservation - build refund query: %v", ErrBuildQuery, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return mapError(ErrExecQuery, "CancelReservation - refund credit", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	r.log.Info("CancelReservation: user=%d cancelled reservation=%d", userID, reservationID)
	return nil
}

// inTx выполняет fn в транзакции; при ошибке транзакция откатывается
func (r *Repository) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError(ErrTransaction, op+" - begin", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.log.Error("%s: rollback failed: %v", op, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapError(ErrTransaction, op+" - commit", err)
	}
	return nil
}

func (r *Repository) observe(op string, started time.Time, err *error) {
	r.metrics.ObserveGateway(op, *err, time.Since(started))
}

// slotsQuery строит запрос слотов по диапазону и фильтрам
func slotsQuery(q domain.SlotQuery) squirrel.SelectBuilder {
	builder := psqlbuilder.Select(slotColumns...).
		From("gym_slots s").
		Join("activities a ON a.id = s.activity_id").
		Join("branches b ON b.id = s.branch_id").
		OrderBy("s.starts_at", "s.id")

	if !q.From.IsZero() {
		builder = builder.Where(squirrel.GtOrEq{"s.starts_at": q.From})
	}
	if !q.To.IsZero() {
		builder = builder.Where(squirrel.Lt{"s.starts_at": q.To})
	}
	if q.BranchID != nil {
		builder = builder.Where(squirrel.Eq{"s.branch_id": *q.BranchID})
	}
	if q.ActivityID != nil {
		builder = builder.Where(squirrel.Eq{"s.activity_id": *q.ActivityID})
	}

	return builder
}

// reservationsQuery строит запрос активных бронирований пользователя со снимком слота
func reservationsQuery(userID int64) squirrel.SelectBuilder {
	columns := append([]string{"res.id", "res.user_id", "res.created_at"}, slotColumns...)

	return psqlbuilder.Select(columns...).
		From("reservations res").
		Join("gym_slots s ON s.id = res.slot_id").
		Join("activities a ON a.id = s.activity_id").
		Join("branches b ON b.id = s.branch_id").
		Where(squirrel.Eq{"res.user_id": userID}).
		Where("res.cancelled_at IS NULL").
		OrderBy("res.created_at DESC")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var slot domain.Slot
	if err := row.Scan(slotDest(&slot)...); err != nil {
		return nil, err
	}
	return &slot, nil
}

// slotDest приёмники для slotColumns; nullable поля заполняются через scanner-обёртки
func slotDest(slot *domain.Slot) []interface{} {
	return []interface{}{
		&slot.ID,
		&slot.ActivityID,
		&slot.ActivityName,
		&slot.BranchID,
		&slot.BranchName,
		&slot.BranchAddress,
		&slot.Start,
		nullTime{dst: &slot.End},
		nullInt{dst: &slot.DurationMinutes},
		&slot.Capacity,
		nullInt{dst: &slot.CutoffMinutes},
		&slot.Occupancy,
	}
}

func sessionUser(session domain.Session) (int64, error) {
	if session.UserID <= 0 {
		return 0, fmt.Errorf("%w: session has no user id", domain.ErrForbidden)
	}
	return session.UserID, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// nullTime сканирует nullable timestamp в *time.Time
type nullTime struct {
	dst **time.Time
}

func (n nullTime) Scan(src interface{}) error {
	var t sql.NullTime
	if err := t.Scan(src); err != nil {
		return err
	}
	*n.dst = nullTimePtr(t)
	return nil
}

// nullInt сканирует nullable integer в *int
type nullInt struct {
	dst **int
}

func (n nullInt) Scan(src interface{}) error {
	var v sql.NullInt64
	if err := v.Scan(src); err != nil {
		return err
	}
	if !v.Valid {
		*n.dst = nil
		return nil
	}
	i := int(v.Int64)
	*n.dst = &i
	return nil
}
