package get_class_board

import (
	"time"

	"github.com/m04kA/bitforce-booking/internal/domain"
)

// Request модель запроса доски классов
type Request struct {
	Session      domain.Session
	BranchID     *int64    // Фильтр по филиалу (опционально)
	ActivityID   *int64    // Фильтр по активности (опционально)
	Date         time.Time // День (нулевое значение = сегодня)
	ForceRefresh bool      // Обновить с бэкенда, даже если есть снимок с тем же фильтром
}

// Response модель ответа с доской классов
type Response struct {
	Date      time.Time // День, на который построена доска
	FetchedAt time.Time // Время получения данных
	Stale     bool      // Обновление не удалось, показан предыдущий снимок
	Credits   Credits
	Days      []Day
}

// Credits заголовок с кредитами пользователя
type Credits struct {
	UserID    int64
	Username  string
	Balance   int
	ExpiresAt *time.Time
	Expired   bool
}

// Day классы одного календарного дня
type Day struct {
	Date  time.Time
	Slots []Slot
}

// Slot модель класса с вычисленным состоянием
type Slot struct {
	ID            int64
	ActivityID    int64
	ActivityName  string
	BranchID      int64
	BranchName    string
	BranchAddress string

	Start           time.Time
	End             time.Time
	DurationMinutes int
	CutoffMinutes   int
	CutoffDeadline  time.Time

	Capacity       int
	Occupancy      int
	AvailableSpots int
	OccupancyRate  float64 // 0-100

	State    domain.SlotState
	Decision domain.Decision
}
