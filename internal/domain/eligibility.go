package domain

// BlockReason причина, по которой действие с слотом недоступно
type BlockReason string

const (
	ReasonNone          BlockReason = "NONE"
	ReasonAlreadyBooked BlockReason = "ALREADY_BOOKED"
	ReasonOverlap       BlockReason = "OVERLAP"
	ReasonCutoffClosed  BlockReason = "CUTOFF_CLOSED"
	ReasonNoCredits     BlockReason = "NO_CREDITS"
	ReasonNoCapacity    BlockReason = "NO_CAPACITY"
	ReasonMalformedSlot BlockReason = "MALFORMED_SLOT"
)

// SlotState состояние слота с точки зрения пользователя (вычисляется, не хранится)
type SlotState string

const (
	StateAvailable SlotState = "AVAILABLE"
	StateReserved  SlotState = "RESERVED"
	StateClosed    SlotState = "CLOSED"
	StateHidden    SlotState = "HIDDEN"
)

// Decision результат оценки доступности действий для слота
type Decision struct {
	CanReserve        bool
	CanCancel         bool
	BlockReason       BlockReason // Почему нельзя забронировать (NONE, если можно)
	CancelBlockReason BlockReason // Почему нельзя отменить (NONE, если можно или нечего отменять)
	ReservationID     *int64      // Бронирование пользователя на этот слот (самое новое)
	Duplicate         bool        // На слот больше одного бронирования пользователя
}
