package cancel_reservation

import cancelReservation "github.com/m04kA/bitforce-booking/internal/usecase/cancel_reservation"

// CancelResponse HTTP response model
type CancelResponse struct {
	ReservationID int64 `json:"reservationId"`
	Cancelled     bool  `json:"cancelled"`
	Credits       *int  `json:"credits,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelReservation.Response) *CancelResponse {
	return &CancelResponse{
		ReservationID: resp.ReservationID,
		Cancelled:     true,
		Credits:       resp.Credits,
	}
}
