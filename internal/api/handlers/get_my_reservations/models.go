package get_my_reservations

import (
	"time"

	getMyReservations "github.com/m04kA/bitforce-booking/internal/usecase/get_my_reservations"
)

// ReservationsResponse HTTP response model
type ReservationsResponse struct {
	Username string                `json:"username"`
	Upcoming []ReservationResponse `json:"upcoming"`
	History  []ReservationResponse `json:"history"`
}

type ReservationResponse struct {
	ID                int64   `json:"id"`
	SlotID            int64   `json:"slotId"`
	ActivityName      string  `json:"activityName,omitempty"`
	BranchName        string  `json:"branchName,omitempty"`
	BranchAddress     string  `json:"branchAddress,omitempty"`
	Start             *string `json:"start,omitempty"`
	End               *string `json:"end,omitempty"`
	CreatedAt         string  `json:"createdAt"`
	Status            string  `json:"status"`
	CanCancel         bool    `json:"canCancel"`
	CancelBlockReason string  `json:"cancelBlockReason"`
	CutoffDeadline    *string `json:"cutoffDeadline,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getMyReservations.Response) *ReservationsResponse {
	return &ReservationsResponse{
		Username: resp.Username,
		Upcoming: toReservations(resp.Upcoming),
		History:  toReservations(resp.History),
	}
}

func toReservations(list []getMyReservations.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(list))
	for _, res := range list {
		out = append(out, ReservationResponse{
			ID:                res.ID,
			SlotID:            res.SlotID,
			ActivityName:      res.ActivityName,
			BranchName:        res.BranchName,
			BranchAddress:     res.BranchAddress,
			Start:             formatTime(res.Start),
			End:               formatTime(res.End),
			CreatedAt:         res.CreatedAt.Format(time.RFC3339),
			Status:            res.Status,
			CanCancel:         res.CanCancel,
			CancelBlockReason: string(res.CancelBlockReason),
			CutoffDeadline:    formatTime(res.CutoffDeadline),
		})
	}
	return out
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
