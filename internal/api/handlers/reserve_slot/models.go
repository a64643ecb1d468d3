package reserve_slot

import (
	"time"

	reserveSlot "github.com/m04kA/bitforce-booking/internal/usecase/reserve_slot"
)

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ReservationID int64  `json:"reservationId"`
	SlotID        int64  `json:"slotId"`
	CreatedAt     string `json:"createdAt"`
	Credits       *int   `json:"credits,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveSlot.Response) *ReservationResponse {
	return &ReservationResponse{
		ReservationID: resp.ReservationID,
		SlotID:        resp.SlotID,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		Credits:       resp.Credits,
	}
}
