package get_my_reservations

import (
	"time"

	"github.com/m04kA/bitforce-booking/internal/domain"
)

// Статусы бронирования для отображения
const (
	StatusUpcoming   = "upcoming"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusUnknown    = "unknown" // бэкенд не прислал время слота
)

// Request модель запроса бронирований пользователя
type Request struct {
	Session      domain.Session
	ForceRefresh bool
}

// Response модель ответа: будущие по возрастанию, история по убыванию
type Response struct {
	Username string
	Upcoming []Reservation
	History  []Reservation
}

// Reservation модель бронирования
type Reservation struct {
	ID            int64
	SlotID        int64
	ActivityName  string
	BranchName    string
	BranchAddress string
	Start         *time.Time
	End           *time.Time
	CreatedAt     time.Time
	Status        string

	CanCancel         bool
	CancelBlockReason domain.BlockReason
	CutoffDeadline    *time.Time
}
