package get_class_board

import (
	"strconv"
	"time"

	"github.com/m04kA/bitforce-booking/internal/domain"
	getClassBoard "github.com/m04kA/bitforce-booking/internal/usecase/get_class_board"
)

// BoardResponse HTTP response model
type BoardResponse struct {
	Date      string          `json:"date"`
	FetchedAt string          `json:"fetchedAt"`
	Stale     bool            `json:"stale"`
	Credits   CreditsResponse `json:"credits"`
	Days      []DayResponse   `json:"days"`
}

type CreditsResponse struct {
	UserID    int64   `json:"userId"`
	Username  string  `json:"username"`
	Balance   int     `json:"balance"`
	ExpiresAt *string `json:"expiresAt,omitempty"`
	Expired   bool    `json:"expired"`
}

type DayResponse struct {
	Date  string         `json:"date"`
	Slots []SlotResponse `json:"slots"`
}

type SlotResponse struct {
	ID              int64   `json:"id"`
	ActivityID      int64   `json:"activityId"`
	ActivityName    string  `json:"activityName"`
	BranchID        int64   `json:"branchId"`
	BranchName      string  `json:"branchName"`
	BranchAddress   string  `json:"branchAddress,omitempty"`
	Start           string  `json:"start"`
	End             string  `json:"end"`
	StartTime       string  `json:"startTime"` // "18:30"
	DurationMinutes int     `json:"durationMinutes"`
	CutoffMinutes   int     `json:"cutoffMinutes"`
	CutoffDeadline  string  `json:"cutoffDeadline"`
	Capacity        int     `json:"capacity"`
	Occupancy       int     `json:"occupancy"`
	AvailableSpots  int     `json:"availableSpots"`
	OccupancyRate   float64 `json:"occupancyRate"`

	State             string `json:"state"`
	CanReserve        bool   `json:"canReserve"`
	CanCancel         bool   `json:"canCancel"`
	BlockReason       string `json:"blockReason"`
	CancelBlockReason string `json:"cancelBlockReason"`
	ReservationID     *int64 `json:"reservationId,omitempty"`
	Duplicate         bool   `json:"duplicate,omitempty"`
}

// ToUseCaseRequest конвертирует query параметры в модель use case.
// Пустые значения означают отсутствие фильтра.
func ToUseCaseRequest(session domain.Session, branchID, activityID, date, refresh string) (*getClassBoard.Request, error) {
	req := &getClassBoard.Request{Session: session}

	var err error
	if req.BranchID, err = parseOptionalID(branchID); err != nil {
		return nil, err
	}
	if req.ActivityID, err = parseOptionalID(activityID); err != nil {
		return nil, err
	}

	if date != "" {
		if req.Date, err = time.Parse(domain.DateFormat, date); err != nil {
			return nil, err
		}
	}

	if refresh != "" {
		if req.ForceRefresh, err = strconv.ParseBool(refresh); err != nil {
			return nil, err
		}
	}

	return req, nil
}

func parseOptionalID(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getClassBoard.Response) *BoardResponse {
	out := &BoardResponse{
		Date:      resp.Date.Format(domain.DateFormat),
		FetchedAt: resp.FetchedAt.Format(time.RFC3339),
		Stale:     resp.Stale,
		Credits: CreditsResponse{
			UserID:   resp.Credits.UserID,
			Username: resp.Credits.Username,
			Balance:  resp.Credits.Balance,
			Expired:  resp.Credits.Expired,
		},
		Days: make([]DayResponse, 0, len(resp.Days)),
	}

	if resp.Credits.ExpiresAt != nil {
		expires := resp.Credits.ExpiresAt.Format(domain.DateFormat)
		out.Credits.ExpiresAt = &expires
	}

	for _, day := range resp.Days {
		slots := make([]SlotResponse, 0, len(day.Slots))
		for _, s := range day.Slots {
			slots = append(slots, toSlotResponse(s))
		}
		out.Days = append(out.Days, DayResponse{
			Date:  day.Date.Format(domain.DateFormat),
			Slots: slots,
		})
	}

	return out
}

func toSlotResponse(s getClassBoard.Slot) SlotResponse {
	return SlotResponse{
		ID:                s.ID,
		ActivityID:        s.ActivityID,
		ActivityName:      s.ActivityName,
		BranchID:          s.BranchID,
		BranchName:        s.BranchName,
		BranchAddress:     s.BranchAddress,
		Start:             s.Start.Format(time.RFC3339),
		End:               s.End.Format(time.RFC3339),
		StartTime:         s.Start.Format(domain.TimeFormat),
		DurationMinutes:   s.DurationMinutes,
		CutoffMinutes:     s.CutoffMinutes,
		CutoffDeadline:    s.CutoffDeadline.Format(time.RFC3339),
		Capacity:          s.Capacity,
		Occupancy:         s.Occupancy,
		AvailableSpots:    s.AvailableSpots,
		OccupancyRate:     s.OccupancyRate,
		State:             string(s.State),
		CanReserve:        s.Decision.CanReserve,
		CanCancel:         s.Decision.CanCancel,
		BlockReason:       string(s.Decision.BlockReason),
		CancelBlockReason: string(s.Decision.CancelBlockReason),
		ReservationID:     s.Decision.ReservationID,
		Duplicate:         s.Decision.Duplicate,
	}
}
