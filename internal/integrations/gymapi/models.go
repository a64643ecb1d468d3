package gymapi

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/bitforce-booking/internal/domain"
)

// Me модель текущего пользователя (/me/)
type Me struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Credits     flexInt  `json:"creditos"`
	ExpiresAt   flexTime `json:"fecha_vencimiento"`
	ActivatedAt flexTime `json:"fecha_activacion"`
}

// ScheduledClass модель запланированного класса (/claseprogramada/)
type ScheduledClass struct {
	ID              int64    `json:"id"`
	Start           flexTime `json:"inicio"`
	End             flexTime `json:"fin"`
	DurationMinutes flexInt  `json:"duracion"`
	CutoffMinutes   flexInt  `json:"cutoff_minutes"`
	Cutoff          flexInt  `json:"cutoff"` // старое имя поля
	Capacity        flexInt  `json:"capacidad"`
	MaxCapacity     flexInt  `json:"capacidad_maxima"`
	BookedCount     flexInt  `json:"reservas_count"`
	Occupied        flexInt  `json:"ocupados"`
	ActivityID      flexInt  `json:"actividad"`
	ActivityName    string   `json:"actividad_nombre"`
	BranchID        flexInt  `json:"sucursal"`
	BranchName      string   `json:"sucursal_nombre"`
	BranchAddress   string   `json:"sucursal_dir"`
}

// Booking модель бронирования (/booking/)
type Booking struct {
	ID        int64     `json:"id"`
	User      flexInt   `json:"user"`
	UserInfo  *userInfo `json:"user_info"`
	Slot      flexInt   `json:"slot"`
	SlotInfo  *slotInfo `json:"slot_info"`
	CreatedAt flexTime  `json:"creado"`
}

type userInfo struct {
	ID int64 `json:"id"`
}

// slotInfo снимок слота внутри бронирования: активность и филиал приходят названиями
type slotInfo struct {
	ID              int64      `json:"id"`
	Start           flexTime   `json:"inicio"`
	End             flexTime   `json:"fin"`
	DurationMinutes flexInt    `json:"duracion"`
	CutoffMinutes   flexInt    `json:"cutoff_minutes"`
	Cutoff          flexInt    `json:"cutoff"`
	Activity        flexString `json:"actividad"`
	Branch          flexString `json:"sucursal"`
}

type reserveRequest struct {
	Slot int64 `json:"slot"`
}

// errorResponse тело ошибки бэкенда
type errorResponse struct {
	Detail         string   `json:"detail"`
	NonFieldErrors []string `json:"non_field_errors"`
}

func (e errorResponse) message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if len(e.NonFieldErrors) > 0 {
		return e.NonFieldErrors[0]
	}
	return ""
}

// pageResponse ответ с пагинацией
type pageResponse[T any] struct {
	Results []T `json:"results"`
}

// decodeList принимает как массив, так и страницу {"results": [...]}
func decodeList[T any](data []byte) ([]T, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var page pageResponse[T]
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, err
		}
		return page.Results, nil
	}

	var list []T
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (m *Me) toDomain(loc *time.Location) *domain.UserCredit {
	return &domain.UserCredit{
		UserID:      m.ID,
		Username:    m.Username,
		Balance:     m.Credits.Int(),
		ExpiresAt:   m.ExpiresAt.PtrInZone(loc),
		ActivatedAt: m.ActivatedAt.PtrInZone(loc),
	}
}

func (c *ScheduledClass) toDomain(loc *time.Location) *domain.Slot {
	return &domain.Slot{
		ID:              c.ID,
		ActivityID:      int64(c.ActivityID.Int()),
		ActivityName:    c.ActivityName,
		BranchID:        int64(c.BranchID.Int()),
		BranchName:      c.BranchName,
		BranchAddress:   c.BranchAddress,
		Start:           c.Start.InZone(loc),
		End:             c.End.PtrInZone(loc),
		DurationMinutes: c.DurationMinutes.Ptr(),
		Capacity:        firstOf(c.Capacity, c.MaxCapacity).Int(),
		Occupancy:       firstOf(c.BookedCount, c.Occupied).Int(),
		CutoffMinutes:   firstOf(c.CutoffMinutes, c.Cutoff).Ptr(),
	}
}

func (b *Booking) toDomain(loc *time.Location) *domain.Reservation {
	r := &domain.Reservation{
		ID:        b.ID,
		UserID:    int64(b.User.Int()),
		SlotID:    int64(b.Slot.Int()),
		CreatedAt: b.CreatedAt.InZone(loc),
	}

	if b.UserInfo != nil && b.UserInfo.ID != 0 {
		r.UserID = b.UserInfo.ID
	}

	if b.SlotInfo != nil {
		if r.SlotID == 0 {
			r.SlotID = b.SlotInfo.ID
		}
		r.Slot = &domain.Slot{
			ID:              r.SlotID,
			ActivityName:    b.SlotInfo.Activity.String(),
			BranchName:      b.SlotInfo.Branch.String(),
			Start:           b.SlotInfo.Start.InZone(loc),
			End:             b.SlotInfo.End.PtrInZone(loc),
			DurationMinutes: b.SlotInfo.DurationMinutes.Ptr(),
			CutoffMinutes:   firstOf(b.SlotInfo.CutoffMinutes, b.SlotInfo.Cutoff).Ptr(),
		}
	}

	return r
}

// flexInt целое, которое может прийти числом или строкой.
// Нечисловые значения и null считаются отсутствующими.
type flexInt struct {
	Value int
	Valid bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	*f = flexInt{}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	switch v := raw.(type) {
	case float64:
		f.Value, f.Valid = int(v), true
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			f.Value, f.Valid = int(n), true
		}
	case map[string]interface{}:
		// Вложенный объект с id
		if id, ok := v["id"].(float64); ok {
			f.Value, f.Valid = int(id), true
		}
	}
	return nil
}

// Int значение или 0
func (f flexInt) Int() int {
	return f.Value
}

// Ptr значение или nil
func (f flexInt) Ptr() *int {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

func firstOf(values ...flexInt) flexInt {
	for _, v := range values {
		if v.Valid {
			return v
		}
	}
	return flexInt{}
}

// flexTime время в RFC3339 или без зоны; пустые и некорректные значения дают нулевое время.
// Время без зоны бэкенд отдаёт как локальное время зала, зона подставляется в InZone.
type flexTime struct {
	time.Time
	wall bool
}

// layoutWall дата и время без часового пояса
const layoutWall = "2006-01-02T15:04:05"

func (f *flexTime) UnmarshalJSON(data []byte) error {
	f.Time = time.Time{}
	f.wall = false

	var s string
	if err := json.Unmarshal(data, &s); err != nil || s == "" {
		return nil
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		f.Time = t
		return nil
	}
	if t, err := time.Parse(layoutWall, s); err == nil {
		f.Time = t
		f.wall = true
		return nil
	}
	// Одна дата трактуется как полночь UTC
	if t, err := time.Parse(domain.DateFormat, s); err == nil {
		f.Time = t
	}
	return nil
}

// InZone время с зоной loc для значений без зоны; остальные значения не меняются
func (f flexTime) InZone(loc *time.Location) time.Time {
	if !f.wall || loc == nil || f.IsZero() {
		return f.Time
	}
	t := f.Time
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// PtrInZone время или nil
func (f flexTime) PtrInZone(loc *time.Location) *time.Time {
	if f.IsZero() {
		return nil
	}
	t := f.InZone(loc)
	return &t
}

// flexString строка, которая может прийти числом или объектом с полем nombre
type flexString struct {
	Value string
}

func (f *flexString) UnmarshalJSON(data []byte) error {
	f.Value = ""

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	switch v := raw.(type) {
	case string:
		f.Value = v
	case float64:
		f.Value = strconv.FormatFloat(v, 'f', -1, 64)
	case map[string]interface{}:
		if name, ok := v["nombre"].(string); ok {
			f.Value = name
		}
	}
	return nil
}

func (f flexString) String() string {
	return f.Value
}
